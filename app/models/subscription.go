package models

import "time"

const (
	SUBSCRIPTION_ACTIVE     = "ACTIVE"
	SUBSCRIPTION_CANCELED   = "CANCELED"
	SUBSCRIPTION_PAST_DUE   = "PAST_DUE"
	SUBSCRIPTION_INCOMPLETE = "INCOMPLETE"
)

// Subscription binds a user to a plan. Mutated by billing, read-only from
// the admission path. Every non-ACTIVE status is treated uniformly as not
// entitling.
type Subscription struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	PlanID             uint      `gorm:"not null;index" json:"plan_id"`
	Plan               Plan      `json:"plan"`
	Status             string    `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CurrentPeriodStart time.Time `gorm:"not null" json:"currentPeriodStart"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription entitles API usage.
func (s *Subscription) IsActive() bool {
	return s.Status == SUBSCRIPTION_ACTIVE
}
