package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_HasPassword(t *testing.T) {
	u := &User{Email: "a@example.com"}
	assert.False(t, u.HasPassword())

	u.Password = "$2a$10$hash"
	assert.True(t, u.HasPassword())
}

func TestUser_ClearOTP(t *testing.T) {
	exp := time.Now()
	u := &User{OTP: "123456", OTPExpiresAt: &exp}
	u.ClearOTP()
	assert.Empty(t, u.OTP)
	assert.Nil(t, u.OTPExpiresAt)
}
