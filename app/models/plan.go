package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Plan is a priced tier defining how many API calls per billing period and
// how many projects a subscribed user gets. Admin-managed.
type Plan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;type:varchar(100)" json:"name" validate:"required,min=1,max=100"`
	MonthlyPrice float64        `gorm:"not null;default:0" json:"monthlyPrice" validate:"gte=0"`
	APICallLimit int            `gorm:"not null" json:"apiCallLimit" validate:"gt=0"`
	MaxProjects  int            `gorm:"not null" json:"maxProjects" validate:"gt=0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
