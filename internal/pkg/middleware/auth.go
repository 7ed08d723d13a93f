package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/config"
	"github.com/facegate/facegate/internal/pkg/token"
	"github.com/facegate/facegate/internal/pkg/usercontext"
)

// SessionResolver resolves the caller's identity from the session cookie and
// stores it in Locals. It fails closed: a missing, malformed, expired or
// orphaned token yields an anonymous context, never an error response.
func SessionResolver() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(usercontext.SessionCookieName)
		if raw == "" {
			return c.Next()
		}

		claims, err := token.Verify(config.Get().JWTSecret, raw)
		if err != nil {
			return c.Next()
		}

		repo := repository.GetGlobalFactory().GetUserRepository()
		user, err := repo.GetByID(claims.UserID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("session resolver: user lookup failed: %v", err)
			}
			return c.Next()
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     user.ID,
			FullName:   user.FullName,
			Email:      user.Email,
			Role:       user.Role,
			IsLoggedIn: true,
			IsAdmin:    user.IsAdmin(),
		})

		return c.Next()
	}
}

// RequireAuth ensures a resolved identity and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}
	return c.Next()
}

// RequireAdmin ensures a resolved identity with the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn || !uc.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized. Admin access required",
		})
	}
	return c.Next()
}
