package models

import (
	"time"

	"github.com/google/uuid"
)

// User model. ResetPasswordToken holds the SHA-256 hex digest of the issued
// reset token, never the token itself.
type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email                string    `gorm:"unique;not null"`
	Password             string    `gorm:"not null"`
	Name                 string    `gorm:"not null"`
	Role                 string    `gorm:"type:varchar(50);default:'user'"`
	ResetPasswordToken   *string   `gorm:"size:64;index"`
	ResetPasswordExpires *time.Time
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

// SetResetToken records a pending reset.
func (u *User) SetResetToken(digest string, expires time.Time) {
	u.ResetPasswordToken = &digest
	u.ResetPasswordExpires = &expires
}

// ClearResetToken makes any issued token unusable.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}
