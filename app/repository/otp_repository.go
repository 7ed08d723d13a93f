package repository

import (
	"time"

	"github.com/facegate/facegate/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// otpRepository implements the OtpRepository interface
type otpRepository struct {
	db *gorm.DB
}

// NewOtpRepository creates a new one-time-code repository instance
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db: db}
}

// Upsert stores a hashed code for the email, replacing any pending one.
func (r *otpRepository) Upsert(email, codeHash string, expiresAt time.Time) error {
	record := models.OtpCode{
		Email:     email,
		Code:      codeHash,
		ExpiresAt: expiresAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
	}).Create(&record).Error
}

// GetByEmail retrieves the pending code for an email
func (r *otpRepository) GetByEmail(email string) (*models.OtpCode, error) {
	var record models.OtpCode
	err := r.db.Where("email = ?", email).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteByEmail consumes the pending code for an email
func (r *otpRepository) DeleteByEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.OtpCode{}).Error
}
