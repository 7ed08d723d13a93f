package controllers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/facegate/facegate/internal/pkg/config"
	"github.com/facegate/facegate/internal/pkg/token"
	"github.com/facegate/facegate/internal/pkg/usercontext"
)

var validate = validator.New()

// formatValidationErrors converts validator errors into a field-keyed map for
// the response envelope.
func formatValidationErrors(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_error": "Invalid request data"}
	}

	formatted := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		formatted[field] = fieldErrorMessage(fe)
	}
	return formatted
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be negative", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// validationFailed writes the standard 400 envelope for bad request bodies.
func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  formatValidationErrors(err),
	})
}

// internalError writes the generic 500 envelope.
func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}

// setSessionCookie issues the signed session cookie for the user.
func setSessionCookie(c *fiber.Ctx, tok string) {
	cfg := config.Get()
	c.Cookie(&fiber.Cookie{
		Name:     usercontext.SessionCookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(token.SessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.SecureCookies,
	})
}

// clearSessionCookie expires the session cookie. Logout has no server-side
// state to revoke.
func clearSessionCookie(c *fiber.Ctx) {
	cfg := config.Get()
	c.Cookie(&fiber.Cookie{
		Name:     usercontext.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.SecureCookies,
	})
}
