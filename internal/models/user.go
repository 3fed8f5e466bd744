package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines the role of an account.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents a registered account. Every user receives chain-pull
// notification mail; admins additionally manage divisions.
// swagger:model
type User struct {
	ID          uint       `json:"id" gorm:"primarykey,autoIncrement"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`
	Username    string     `json:"username" gorm:"size:100;not null"`
	Email       string     `json:"email" gorm:"size:100;not null;uniqueIndex"`
	PhoneNumber string     `json:"phone_number" gorm:"size:20;not null;uniqueIndex"`
	Password    string     `json:"-" gorm:"size:100;not null"`
	Role        UserRole   `json:"role" gorm:"size:20;default:user"`
	Avatar      string     `json:"avatar" gorm:"size:255"`
	IsVerified  bool       `json:"is_verified" gorm:"default:false"`
	// One-time password state, shared by admin login, password reset and
	// email verification. Cleared after a successful check.
	ResetOTP         string     `json:"-" gorm:"size:10"`
	ResetOTPExpireAt *time.Time `json:"-"`
}

// BeforeCreate defaults the role to a regular user.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// OTPValid reports whether otp matches the stored one and has not expired.
func (u *User) OTPValid(otp string, now time.Time) bool {
	if u.ResetOTP == "" || u.ResetOTP != otp {
		return false
	}
	return u.ResetOTPExpireAt != nil && now.Before(*u.ResetOTPExpireAt)
}
