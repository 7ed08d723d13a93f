package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facegate/facegate/app/models"
	"github.com/facegate/facegate/app/repository"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", fiber.Map{
		"fullName": "Grace Hopper",
		"email":    "grace@example.com",
		"password": "compilers",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "grace@example.com", user["email"])
	assert.NotContains(t, user, "password")

	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(7*24*time.Hour/time.Second), cookie.MaxAge)

	// Duplicate email.
	resp = doJSON(t, app, http.MethodPost, "/auth/register", fiber.Map{
		"fullName": "Grace Hopper",
		"email":    "grace@example.com",
		"password": "compilers",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login round trip.
	resp = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{
		"email":    "grace@example.com",
		"password": "compilers",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sessionCookie(t, resp)

	// Wrong password.
	resp = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{
		"email":    "grace@example.com",
		"password": "interpreters",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown email.
	resp = doJSON(t, app, http.MethodPost, "/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", fiber.Map{
		"fullName": "X",
		"email":    "not-an-email",
		"password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["message"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _ := setupTestApp(t)
	_, cookie := registerTestUser(t, app)

	resp := doJSON(t, app, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := sessionCookie(t, resp)
	assert.Empty(t, cleared.Value)
}

func TestSessionResolverFailsClosed(t *testing.T) {
	app, _ := setupTestApp(t)

	// No cookie.
	resp := doJSON(t, app, http.MethodGet, "/user/projects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token.
	resp = doJSON(t, app, http.MethodGet, "/user/projects", nil, &http.Cookie{Name: "token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionResolverRejectsDeletedUser(t *testing.T) {
	app, db := setupTestApp(t)
	user, cookie := registerTestUser(t, app)

	require.NoError(t, db.Unscoped().Delete(&models.User{}, user.ID).Error)

	resp := doJSON(t, app, http.MethodGet, "/user/projects", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOtpVerifyFlow(t *testing.T) {
	app, _ := setupTestApp(t)

	const email = "otp-flow@example.com"
	hash, err := models.HashPassword("123456")
	require.NoError(t, err)
	repo := repository.GetGlobalFactory().GetOtpRepository()
	require.NoError(t, repo.Upsert(email, hash, time.Now().Add(models.OtpExpiry)))

	// Wrong code.
	resp := doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{
		"email": email,
		"otp":   "000000",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid code", decodeBody(t, resp)["message"])

	// Correct code succeeds exactly once.
	resp = doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{
		"email": email,
		"otp":   "123456",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Consumed: the same code now fails with not-found.
	resp = doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{
		"email": email,
		"otp":   "123456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP not found. Please request a new one.", decodeBody(t, resp)["message"])
}

func TestOtpVerifyExpired(t *testing.T) {
	app, _ := setupTestApp(t)

	const email = "otp-expired@example.com"
	hash, err := models.HashPassword("123456")
	require.NoError(t, err)
	repo := repository.GetGlobalFactory().GetOtpRepository()
	require.NoError(t, repo.Upsert(email, hash, time.Now().Add(-time.Second)))

	resp := doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{
		"email": email,
		"otp":   "123456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP has expired", decodeBody(t, resp)["message"])
}

func TestOtpVerifyMissingFields(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{"email": "x@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/otp/send", fiber.Map{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required", decodeBody(t, resp)["message"])
}

func TestOtpUpsertReplacesPendingCode(t *testing.T) {
	app, _ := setupTestApp(t)

	const email = "otp-replace@example.com"
	repo := repository.GetGlobalFactory().GetOtpRepository()

	firstHash, err := models.HashPassword("111111")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(email, firstHash, time.Now().Add(models.OtpExpiry)))

	secondHash, err := models.HashPassword("222222")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(email, secondHash, time.Now().Add(models.OtpExpiry)))

	// Only the newest code verifies.
	resp := doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{
		"email": email,
		"otp":   "111111",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/otp/verify", fiber.Map{
		"email": email,
		"otp":   "222222",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
