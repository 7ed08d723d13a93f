package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/facegate/facegate/app/controllers"
	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/config"
	"github.com/facegate/facegate/internal/pkg/gate"
	"github.com/facegate/facegate/internal/pkg/inference"
	"github.com/facegate/facegate/internal/pkg/middleware"
	"github.com/facegate/facegate/internal/pkg/webhook"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	factory := repository.GetGlobalFactory()
	admissionGate := gate.New(
		factory.GetProjectRepository(),
		factory.GetApiLogRepository(),
		inference.NewClient(config.Get().AIEngineURL),
		webhook.NewNotifier(),
	)
	controllers.SetGate(admissionGate)

	app.Use(middleware.SessionResolver())

	auth := app.Group("/auth", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
	}))
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Post("/otp/send", controllers.HandleOtpSend)
	auth.Post("/otp/verify", controllers.HandleOtpVerify)

	user := app.Group("/user", middleware.RequireAuth)
	user.Get("/projects", controllers.HandleListProjects)
	user.Post("/projects", controllers.HandleCreateProject)
	user.Get("/projects/logs", controllers.HandleProjectLogs)
	user.Put("/projects/:id", controllers.HandleUpdateProject)
	user.Delete("/projects/:id", controllers.HandleDeleteProject)
	user.Post("/projects/:id/regenerate", controllers.HandleRegenerateAPIKey)

	admin := app.Group("/admin")
	admin.Get("/plans", controllers.HandleListPlans)
	admin.Post("/plans", middleware.RequireAdmin, controllers.HandleCreatePlan)
	admin.Put("/plans/:id", middleware.RequireAdmin, controllers.HandleUpdatePlan)
	admin.Delete("/plans/:id", middleware.RequireAdmin, controllers.HandleDeletePlan)

	app.Post("/face-auth/authenticate", controllers.HandleFaceAuthenticate)
}
