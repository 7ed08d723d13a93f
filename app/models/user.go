package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER  = "USER"
	ROLE_ADMIN = "ADMIN"
)

// bcryptCost matches the fixed strength used for both passwords and one-time
// codes.
const bcryptCost = 12

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"type:varchar(150)" json:"fullName" validate:"required,min=2,max=150"`
	Email        string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	Password     string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role         string         `gorm:"type:varchar(20);default:'USER'" json:"role" validate:"oneof=USER ADMIN"`
	Subscription *Subscription  `json:"subscription,omitempty"`
	Projects     []Project      `json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds a validated user with a hashed password. The caller is
// responsible for persisting it.
func CreateUser(fullName string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		FullName: fullName,
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given plaintext with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies the provided password against the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
