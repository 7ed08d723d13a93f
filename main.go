package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/config"
	"github.com/facegate/facegate/internal/pkg/database"
	"github.com/facegate/facegate/internal/pkg/env"
	"github.com/facegate/facegate/internal/pkg/router"
)

func main() {
	app := NewApplication()
	cfg := config.Get()
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	config.Load()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10 MiB, images only
	})
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app)

	return app
}
