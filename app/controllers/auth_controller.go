package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/facegate/facegate/app/models"
	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/config"
	"github.com/facegate/facegate/internal/pkg/mail"
	"github.com/facegate/facegate/internal/pkg/token"
)

type registerRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=150"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a user account and logs it in.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := validate.Struct(&req); err != nil {
		return validationFailed(c, err)
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "User already exists",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("register: email lookup failed: %v", err)
		return internalError(c)
	}

	user, err := models.CreateUser(req.FullName, req.Email, req.Password)
	if err != nil {
		return validationFailed(c, err)
	}
	if err := repo.Create(user); err != nil {
		log.Printf("register: create failed: %v", err)
		return internalError(c)
	}

	tok, err := token.Generate(config.Get().JWTSecret, user.ID, user.Role)
	if err != nil {
		log.Printf("register: token generation failed: %v", err)
		return internalError(c)
	}
	setSessionCookie(c, tok)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

// HandleLogin authenticates by email and password and issues the session
// cookie.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := validate.Struct(&req); err != nil {
		return validationFailed(c, err)
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		log.Printf("login: email lookup failed: %v", err)
		return internalError(c)
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	tok, err := token.Generate(config.Get().JWTSecret, user.ID, user.Role)
	if err != nil {
		log.Printf("login: token generation failed: %v", err)
		return internalError(c)
	}
	setSessionCookie(c, tok)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    user,
	})
}

// HandleLogout deletes the session cookie. Tokens are not revocable
// server-side.
func HandleLogout(c *fiber.Ctx) error {
	clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}

type otpSendRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// HandleOtpSend issues a 6-digit code for the email, replacing any pending
// one, and mails it. The stored code is hashed; expiry is fixed at 5 minutes.
func HandleOtpSend(c *fiber.Ctx) error {
	var req otpSendRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email is required",
		})
	}

	plainOtp, err := models.GenerateOTP()
	if err != nil {
		log.Printf("otp send: generation failed: %v", err)
		return otpSendFailed(c)
	}

	hashedOtp, err := models.HashPassword(plainOtp)
	if err != nil {
		log.Printf("otp send: hashing failed: %v", err)
		return otpSendFailed(c)
	}

	repo := repository.GetGlobalFactory().GetOtpRepository()
	expiresAt := time.Now().Add(models.OtpExpiry)
	if err := repo.Upsert(req.Email, hashedOtp, expiresAt); err != nil {
		log.Printf("otp send: store failed: %v", err)
		return otpSendFailed(c)
	}

	subject, body := mail.OtpTemplate(plainOtp)
	if err := mail.SendMail(req.Email, subject, body); err != nil {
		return otpSendFailed(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	})
}

func otpSendFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Failed to send OTP",
	})
}

// HandleOtpVerify checks a code and consumes it on success. Expired codes are
// rejected and left for a later overwrite.
func HandleOtpVerify(c *fiber.Ctx) error {
	var req otpVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Otp == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and OTP are required",
		})
	}

	repo := repository.GetGlobalFactory().GetOtpRepository()
	record, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "OTP not found. Please request a new one.",
			})
		}
		log.Printf("otp verify: lookup failed: %v", err)
		return internalError(c)
	}

	if record.IsExpired() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "OTP has expired",
		})
	}

	if !record.CheckCode(req.Otp) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid code",
		})
	}

	if err := repo.DeleteByEmail(req.Email); err != nil {
		log.Printf("otp verify: consume failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification successful",
	})
}
