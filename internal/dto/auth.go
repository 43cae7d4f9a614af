package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type SetPasswordRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
	ResetToken  string `json:"resetToken" validate:"required"`
}

type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type ResetTokenResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
