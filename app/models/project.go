package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a tenant-scoped unit holding exactly one active API key and an
// optional webhook URL that receives authentication results.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `json:"-"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=3,max=150"`
	Description string         `gorm:"type:text" json:"description"`
	APIKey      string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"apiKey"`
	WebhookURL  string         `gorm:"type:varchar(255)" json:"webhookUrl" validate:"omitempty,url"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// NewAPIKey returns a fresh opaque API key.
func NewAPIKey() string {
	return uuid.NewString()
}

// BeforeCreate assigns an API key when none was set explicitly.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.APIKey == "" {
		p.APIKey = NewAPIKey()
	}
	return nil
}
