package repository

import (
	"time"

	"github.com/facegate/facegate/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetByName(name string) (*models.Plan, error)
	List() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// SubscriptionRepository defines the interface for subscription reads. The
// admission path never mutates subscriptions.
type SubscriptionRepository interface {
	GetByUserID(userID uint) (*models.Subscription, error)
	CountByPlanID(planID uint) (int64, error)
}

// ProjectRepository defines the interface for project-related database operations
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	// GetByAPIKey resolves a key to its project with the owning user, that
	// user's subscription and the subscription's plan loaded in one read.
	GetByAPIKey(apiKey string) (*models.Project, error)
	GetByUserIDAndName(userID uint, name string) (*models.Project, error)
	ListByUserID(userID uint) ([]models.Project, error)
	CountByUserID(userID uint) (int64, error)
	Update(project *models.Project) error
	Delete(id uint) error
	UpdateAPIKey(id uint, apiKey string) error
}

// ApiLogRepository defines the append-only usage log operations
type ApiLogRepository interface {
	Create(log *models.ApiLog) error
	// CountForUserSince counts rows across all projects owned by the user
	// with a timestamp at or after the given instant.
	CountForUserSince(userID uint, since time.Time) (int64, error)
	// CountForProjectSince counts rows for one project within the trailing
	// rate-limit window.
	CountForProjectSince(projectID uint, since time.Time) (int64, error)
	ListRecentByUserID(userID uint, limit int) ([]models.ApiLog, error)
}

// OtpRepository defines the one-time-code store. One pending code per email.
type OtpRepository interface {
	Upsert(email, codeHash string, expiresAt time.Time) error
	GetByEmail(email string) (*models.OtpCode, error)
	DeleteByEmail(email string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Project      ProjectRepository
	ApiLog       ApiLogRepository
	Otp          OtpRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Project:      NewProjectRepository(db),
		ApiLog:       NewApiLogRepository(db),
		Otp:          NewOtpRepository(db),
	}
}
