package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facegate/facegate/internal/pkg/gate"
)

var admissionGate *gate.Gate

// SetGate injects the admission gate instance. Called once during router
// installation.
func SetGate(g *gate.Gate) {
	admissionGate = g
}

// HandleFaceAuthenticate runs the admission pipeline for one inbound
// face-authentication request: API key resolution, subscription check,
// monthly quota, per-project rate window, payload validation, upstream call,
// usage logging and webhook fan-out.
func HandleFaceAuthenticate(c *fiber.Ctx) error {
	apiKey := strings.TrimSpace(c.Get("x-api-key"))

	var image *gate.Image
	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("face-auth: opening uploaded image failed: %v", err)
			return internalError(c)
		}
		defer file.Close()
		image = &gate.Image{Filename: fileHeader.Filename, Reader: file}
	}

	data, err := admissionGate.Authenticate(c.Context(), apiKey, image)
	if err != nil {
		var denial *gate.Denial
		if errors.As(err, &denial) {
			return c.Status(denial.Status).JSON(fiber.Map{
				"success": false,
				"message": denial.Message,
			})
		}
		log.Printf("face-auth: unexpected gate error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    json.RawMessage(data),
	})
}
