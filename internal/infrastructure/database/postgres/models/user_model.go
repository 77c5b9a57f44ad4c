package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Mobile         string    `gorm:"type:varchar(20);not null;index"`
	PasswordHashed string    `gorm:"type:varchar(255);not null"`
	Role           string    `gorm:"type:varchar(20);not null"`
	IsVerified     bool      `gorm:"not null"`
	RefreshToken   *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// OTPModel represents the database model for a one-time code
type OTPModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Mobile    string    `gorm:"type:varchar(20);not null"`
	OTP       string    `gorm:"column:otp;type:varchar(6);not null"`
	Purpose   string    `gorm:"type:varchar(20);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (OTPModel) TableName() string {
	return "otps"
}
