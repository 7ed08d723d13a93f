package repository

import (
	"github.com/facegate/facegate/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByUserID retrieves a user's subscription with its plan preloaded
func (r *subscriptionRepository) GetByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountByPlanID returns how many subscriptions reference the given plan
func (r *subscriptionRepository) CountByPlanID(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}
