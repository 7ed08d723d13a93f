package repository

import (
	"strings"

	"github.com/facegate/facegate/app/models"
	"gorm.io/gorm"
)

// projectRepository implements the ProjectRepository interface
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project in the database
func (r *projectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// GetByID retrieves a project by its ID
func (r *projectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByAPIKey resolves an API key to its project, loading the owning user
// with subscription and plan so the admission gate needs a single read.
func (r *projectRepository) GetByAPIKey(apiKey string) (*models.Project, error) {
	trimmed := strings.TrimSpace(apiKey)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var project models.Project
	err := r.db.
		Preload("User").
		Preload("User.Subscription").
		Preload("User.Subscription.Plan").
		Where("api_key = ?", trimmed).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByUserIDAndName retrieves a user's project by name
func (r *projectRepository) GetByUserIDAndName(userID uint, name string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUserID returns all of a user's projects ordered by name
func (r *projectRepository) ListByUserID(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&projects).Error
	return projects, err
}

// CountByUserID returns the number of projects owned by the user
func (r *projectRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Update updates an existing project in the database
func (r *projectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes a project by its ID
func (r *projectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// UpdateAPIKey swaps the project's API key. The old key stops resolving the
// moment this write commits.
func (r *projectRepository) UpdateAPIKey(id uint, apiKey string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Update("api_key", apiKey).Error
}
