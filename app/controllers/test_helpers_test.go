package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/facegate/facegate/app/models"
	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/config"
	"github.com/facegate/facegate/internal/pkg/database"
	"github.com/facegate/facegate/internal/pkg/middleware"
	"github.com/facegate/facegate/internal/pkg/usercontext"
)

var (
	testSetupOnce sync.Once
	testDB        *gorm.DB
)

// setupTestApp builds a fiber app with the real middleware and routes over a
// shared in-memory database. The repository factory is a process singleton,
// so all tests in this package share one store; tests use unique emails and
// names to stay independent.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	testSetupOnce.Do(func() {
		config.Load()
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			panic(err)
		}
		database.Migrate(db)
		repository.InitializeFactory(db)
		testDB = db
	})

	app := fiber.New()
	app.Use(middleware.SessionResolver())

	auth := app.Group("/auth")
	auth.Post("/register", HandleRegister)
	auth.Post("/login", HandleLogin)
	auth.Post("/logout", HandleLogout)
	auth.Post("/otp/send", HandleOtpSend)
	auth.Post("/otp/verify", HandleOtpVerify)

	user := app.Group("/user", middleware.RequireAuth)
	user.Get("/projects", HandleListProjects)
	user.Post("/projects", HandleCreateProject)
	user.Get("/projects/logs", HandleProjectLogs)
	user.Put("/projects/:id", HandleUpdateProject)
	user.Delete("/projects/:id", HandleDeleteProject)
	user.Post("/projects/:id/regenerate", HandleRegenerateAPIKey)

	admin := app.Group("/admin")
	admin.Get("/plans", HandleListPlans)
	admin.Post("/plans", middleware.RequireAdmin, HandleCreatePlan)
	admin.Put("/plans/:id", middleware.RequireAdmin, HandleUpdatePlan)
	admin.Delete("/plans/:id", middleware.RequireAdmin, HandleDeletePlan)

	return app, testDB
}

// doJSON performs one request against the app, marshalling body when set and
// attaching the session cookie when given.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody parses a response envelope into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

// sessionCookie extracts the session cookie set by a login or register
// response.
func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == usercontext.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

var testUserSeq int

// registerTestUser registers a fresh user and returns it with its session
// cookie.
func registerTestUser(t *testing.T, app *fiber.App) (*models.User, *http.Cookie) {
	t.Helper()
	testUserSeq++
	email := fmt.Sprintf("user%d-%d@example.com", testUserSeq, time.Now().UnixNano())

	resp := doJSON(t, app, http.MethodPost, "/auth/register", fiber.Map{
		"fullName": "Test User",
		"email":    email,
		"password": "secret-pass",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	var user models.User
	require.NoError(t, testDB.Where("email = ?", email).First(&user).Error)
	return &user, cookie
}

// subscribeTestUser creates a plan and an active subscription for the user.
func subscribeTestUser(t *testing.T, user *models.User, apiCallLimit, maxProjects int) *models.Plan {
	t.Helper()
	plan := models.Plan{
		Name:         fmt.Sprintf("Plan-%d-%d", user.ID, time.Now().UnixNano()),
		MonthlyPrice: 19,
		APICallLimit: apiCallLimit,
		MaxProjects:  maxProjects,
	}
	require.NoError(t, testDB.Create(&plan).Error)
	require.NoError(t, testDB.Create(&models.Subscription{
		UserID:             user.ID,
		PlanID:             plan.ID,
		Status:             models.SUBSCRIPTION_ACTIVE,
		CurrentPeriodStart: time.Now().Add(-time.Hour),
	}).Error)
	return &plan
}

// promoteToAdmin flips the user's role. The session token embeds the role
// only informationally; guards re-read the user on every request.
func promoteToAdmin(t *testing.T, user *models.User) {
	t.Helper()
	require.NoError(t, testDB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("role", models.ROLE_ADMIN).Error)
}
