package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrUserNotFound))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("register: %w", ErrUserExists)))
	assert.Equal(t, KindValidation, KindOf(Validation("email is required")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("smtp down")
	err := &Error{Kind: KindInternal, Message: "Failed to send OTP", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to send OTP: smtp down", err.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", ErrOTPExpired), ErrOTPExpired)
	assert.NotErrorIs(t, ErrOTPExpired, ErrInvalidOTP)
}
