package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/facegate/facegate/app/models"
	"github.com/facegate/facegate/app/repository"
)

type planRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	MonthlyPrice float64 `json:"monthlyPrice" validate:"gte=0"`
	APICallLimit int     `json:"apiCallLimit" validate:"gt=0"`
	MaxProjects  int     `json:"maxProjects" validate:"gt=0"`
}

// HandleListPlans returns all plans ordered by monthly price. Publicly
// readable; only mutations require the admin role.
func HandleListPlans(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetPlanRepository()
	plans, err := repo.List()
	if err != nil {
		log.Printf("plans: list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch plans",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"plans":   plans,
	})
}

// HandleCreatePlan creates a plan. Admin only.
func HandleCreatePlan(c *fiber.Ctx) error {
	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := validate.Struct(&req); err != nil {
		return validationFailed(c, err)
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	if _, err := repo.GetByName(req.Name); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Plan with this name already exists",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("plans: name lookup failed: %v", err)
		return internalError(c)
	}

	plan := &models.Plan{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		APICallLimit: req.APICallLimit,
		MaxProjects:  req.MaxProjects,
	}
	if err := repo.Create(plan); err != nil {
		log.Printf("plans: create failed: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Plan created",
		"plan":    plan,
	})
}

// HandleUpdatePlan updates an existing plan. Admin only.
func HandleUpdatePlan(c *fiber.Ctx) error {
	planID, err := c.ParamsInt("id")
	if err != nil || planID < 1 {
		return planNotFound(c)
	}

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := validate.Struct(&req); err != nil {
		return validationFailed(c, err)
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(uint(planID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return planNotFound(c)
		}
		log.Printf("plans: lookup failed: %v", err)
		return internalError(c)
	}

	plan.Name = req.Name
	plan.MonthlyPrice = req.MonthlyPrice
	plan.APICallLimit = req.APICallLimit
	plan.MaxProjects = req.MaxProjects
	if err := repo.Update(plan); err != nil {
		log.Printf("plans: update failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plan updated",
		"plan":    plan,
	})
}

// HandleDeletePlan deletes a plan unless subscriptions still reference it.
// Admin only.
func HandleDeletePlan(c *fiber.Ctx) error {
	planID, err := c.ParamsInt("id")
	if err != nil || planID < 1 {
		return planNotFound(c)
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	plan, err := repos.Plan.GetByID(uint(planID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return planNotFound(c)
		}
		log.Printf("plans: lookup failed: %v", err)
		return internalError(c)
	}

	subs, err := repos.Subscription.CountByPlanID(plan.ID)
	if err != nil {
		log.Printf("plans: subscription count failed: %v", err)
		return internalError(c)
	}
	if subs > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot delete plan. There are active subscriptions using it.",
		})
	}

	if err := repos.Plan.Delete(plan.ID); err != nil {
		log.Printf("plans: delete failed: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plan deleted successfully",
	})
}

func planNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Plan not found",
	})
}
