package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/facegate/facegate/app/models"
	"github.com/facegate/facegate/app/repository"
	"github.com/facegate/facegate/internal/pkg/usercontext"
)

type projectRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=150"`
	Description string `json:"description"`
	WebhookURL  string `json:"webhookUrl" validate:"omitempty,url"`
}

const projectLogsPageSize = 50

// HandleListProjects returns the caller's projects ordered by name.
func HandleListProjects(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetProjectRepository()
	projects, err := repo.ListByUserID(uc.UserID)
	if err != nil {
		log.Printf("projects: list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch projects",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
	})
}

// HandleCreateProject creates a project, bounded by the caller's plan.
func HandleCreateProject(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := validate.Struct(&req); err != nil {
		return validationFailed(c, err)
	}

	repos := repository.GetGlobalFactory().GetRepositories()

	if _, err := repos.Project.GetByUserIDAndName(uc.UserID, req.Name); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Project already exists",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("projects: name lookup failed: %v", err)
		return internalError(c)
	}

	sub, err := repos.Subscription.GetByUserID(uc.UserID)
	if err != nil || !sub.IsActive() {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("projects: subscription lookup failed: %v", err)
			return internalError(c)
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "No active subscription found",
		})
	}

	count, err := repos.Project.CountByUserID(uc.UserID)
	if err != nil {
		log.Printf("projects: count failed: %v", err)
		return internalError(c)
	}
	if count >= int64(sub.Plan.MaxProjects) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Plan limit reached. Your plan (%s) allows %d projects.", sub.Plan.Name, sub.Plan.MaxProjects),
		})
	}

	project := &models.Project{
		UserID:      uc.UserID,
		Name:        req.Name,
		Description: req.Description,
		WebhookURL:  req.WebhookURL,
	}
	if err := repos.Project.Create(project); err != nil {
		log.Printf("projects: create failed: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Project created",
		"project": project,
	})
}

// HandleUpdateProject updates name, description and webhook URL of an owned
// project.
func HandleUpdateProject(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	projectID, err := c.ParamsInt("id")
	if err != nil || projectID < 1 {
		return projectNotFound(c)
	}

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := validate.Struct(&req); err != nil {
		return validationFailed(c, err)
	}

	repo := repository.GetGlobalFactory().GetProjectRepository()
	project, err := repo.GetByID(uint(projectID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return projectNotFound(c)
		}
		log.Printf("projects: lookup failed: %v", err)
		return internalError(c)
	}

	if project.UserID != uc.UserID {
		return projectForbidden(c)
	}

	if req.Name != project.Name {
		if _, err := repo.GetByUserIDAndName(uc.UserID, req.Name); err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Project name already exists",
			})
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("projects: name lookup failed: %v", err)
			return internalError(c)
		}
	}

	project.Name = req.Name
	project.Description = req.Description
	project.WebhookURL = req.WebhookURL
	if err := repo.Update(project); err != nil {
		log.Printf("projects: update failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project updated",
		"project": project,
	})
}

// HandleDeleteProject deletes an owned project.
func HandleDeleteProject(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	projectID, err := c.ParamsInt("id")
	if err != nil || projectID < 1 {
		return projectNotFound(c)
	}

	repo := repository.GetGlobalFactory().GetProjectRepository()
	project, err := repo.GetByID(uint(projectID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return projectNotFound(c)
		}
		log.Printf("projects: lookup failed: %v", err)
		return internalError(c)
	}

	if project.UserID != uc.UserID {
		return projectForbidden(c)
	}

	if err := repo.Delete(project.ID); err != nil {
		log.Printf("projects: delete failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project deleted successfully",
	})
}

// HandleRegenerateAPIKey swaps the project's API key. The old key stops
// resolving immediately; there is one active key per project.
func HandleRegenerateAPIKey(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	projectID, err := c.ParamsInt("id")
	if err != nil || projectID < 1 {
		return projectNotFound(c)
	}

	repo := repository.GetGlobalFactory().GetProjectRepository()
	project, err := repo.GetByID(uint(projectID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return projectNotFound(c)
		}
		log.Printf("projects: lookup failed: %v", err)
		return internalError(c)
	}

	if project.UserID != uc.UserID {
		return projectForbidden(c)
	}

	newKey := models.NewAPIKey()
	if err := repo.UpdateAPIKey(project.ID, newKey); err != nil {
		log.Printf("projects: key regeneration failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "API Key regenerated successfully",
		"apiKey":  newKey,
	})
}

// HandleProjectLogs returns the latest usage log rows across all of the
// caller's projects.
func HandleProjectLogs(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetApiLogRepository()
	logs, err := repo.ListRecentByUserID(uc.UserID, projectLogsPageSize)
	if err != nil {
		log.Printf("projects: log listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch logs",
		})
	}

	items := make([]fiber.Map, 0, len(logs))
	for _, entry := range logs {
		items = append(items, fiber.Map{
			"id":         entry.ID,
			"project_id": entry.ProjectID,
			"project":    fiber.Map{"name": entry.Project.Name},
			"endpoint":   entry.Endpoint,
			"status":     entry.Status,
			"created_at": entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"logs":    items,
	})
}

func projectNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Project not found",
	})
}

func projectForbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Forbidden: You do not own this project",
	})
}
