package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OtpExpiry is how long an issued one-time code stays valid.
const OtpExpiry = 5 * time.Minute

// OtpCode stores one pending verification code per email address. The code
// column holds a bcrypt hash, never the plaintext. A new request for the same
// email overwrites the previous row.
type OtpCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200);not null" json:"email"`
	Code      string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the code is past its expiry.
func (o *OtpCode) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// CheckCode verifies a plaintext code against the stored hash.
func (o *OtpCode) CheckCode(code string) bool {
	return CheckPasswordHash(code, o.Code)
}

// GenerateOTP returns a random 6-digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
