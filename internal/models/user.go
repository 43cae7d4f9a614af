package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID  `db:"id"`
	Email           string     `db:"email"`
	Username        string     `db:"username"`
	Password        string     `db:"password"` // bcrypt hash, empty until set
	OTP             string     `db:"otp"`
	OTPExpiresAt    *time.Time `db:"otp_expires_at"`
	IsEmailVerified bool       `db:"is_email_verified"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// SetOTP attaches a one-time code. Code and expiry are always set together.
func (u *User) SetOTP(code string, expiresAt time.Time) {
	u.OTP = code
	u.OTPExpiresAt = &expiresAt
}

// ClearOTP removes the code and its expiry.
func (u *User) ClearOTP() {
	u.OTP = ""
	u.OTPExpiresAt = nil
}

func (u *User) HasPassword() bool {
	return u.Password != ""
}
