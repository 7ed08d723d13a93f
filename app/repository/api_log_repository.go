package repository

import (
	"time"

	"github.com/facegate/facegate/app/models"
	"gorm.io/gorm"
)

// apiLogRepository implements the ApiLogRepository interface
type apiLogRepository struct {
	db *gorm.DB
}

// NewApiLogRepository creates a new API log repository instance
func NewApiLogRepository(db *gorm.DB) ApiLogRepository {
	return &apiLogRepository{db: db}
}

// Create appends one usage log row
func (r *apiLogRepository) Create(log *models.ApiLog) error {
	return r.db.Create(log).Error
}

// CountForUserSince counts log rows across all projects owned by the user
// from the given instant onward. This is the monthly-quota counter.
func (r *apiLogRepository) CountForUserSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ApiLog{}).
		Joins("JOIN projects ON projects.id = api_logs.project_id").
		Where("projects.user_id = ? AND api_logs.created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// CountForProjectSince counts log rows for a single project from the given
// instant onward. This is the short-window rate-limit counter.
func (r *apiLogRepository) CountForProjectSince(projectID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ApiLog{}).
		Where("project_id = ? AND created_at >= ?", projectID, since).
		Count(&count).Error
	return count, err
}

// ListRecentByUserID returns the newest log rows across the user's projects
// with the project preloaded for display.
func (r *apiLogRepository) ListRecentByUserID(userID uint, limit int) ([]models.ApiLog, error) {
	var logs []models.ApiLog
	err := r.db.Preload("Project").
		Joins("JOIN projects ON projects.id = api_logs.project_id").
		Where("projects.user_id = ?", userID).
		Order("api_logs.created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
