package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a user
// @Description Creates an unverified user (or refreshes an unverified one) and emails an OTP
// @Tags auth
// @Accept json
// @Produce plain
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 200 {string} string "OTP sent successfully via email."
// @Failure 400 {object} dto.MessageResponse
// @Failure 409 {object} dto.MessageResponse
// @Failure 429 {object} dto.MessageResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.authService.Register(c.Context(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusOK).SendString("OTP sent successfully via email.")
}

// VerifyOTP godoc
// @Summary Verify registration OTP
// @Tags auth
// @Accept json
// @Produce plain
// @Param request body dto.VerifyOTPRequest true "Email and OTP"
// @Success 200 {string} string "OTP verified successfully"
// @Failure 400 {object} dto.MessageResponse
// @Router /api/auth/verify [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.authService.VerifyOTP(c.Context(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusOK).SendString("OTP verified successfully")
}

// ResendOTP godoc
// @Summary Resend registration OTP
// @Tags auth
// @Accept json
// @Produce plain
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {string} string "OTP resent successfully"
// @Failure 400 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.authService.ResendOTP(c.Context(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusOK).SendString("OTP resent successfully")
}

// SetPassword godoc
// @Summary Set the password of a verified user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SetPasswordRequest true "Email and password"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/auth/set-password [post]
func (h *AuthHandler) SetPassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	token, err := h.authService.SetPassword(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.TokenResponse{
		Message: "Password set successfully",
		Token:   token,
	})
}

// Login godoc
// @Summary Login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(resp)
}

// ForgotPassword godoc
// @Summary Request a password reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.authService.ForgotPassword(c.Context(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.MessageResponse{Message: "OTP sent for password reset"})
}

// VerifyResetOTP godoc
// @Summary Exchange a reset OTP for a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and OTP"
// @Success 200 {object} dto.ResetTokenResponse
// @Failure 400 {object} dto.MessageResponse
// @Router /api/auth/verify-reset-otp [post]
func (h *AuthHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resetToken, err := h.authService.VerifyResetOTP(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.ResetTokenResponse{
		Message:    "OTP verified",
		ResetToken: resetToken,
	})
}

// ResetPassword godoc
// @Summary Reset the password with a reset token
// @Tags auth
// @Accept json
// @Produce plain
// @Param request body dto.ResetPasswordRequest true "Email, new password and reset token"
// @Success 200 {string} string "Password reset successfully"
// @Failure 400 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.authService.ResetPassword(c.Context(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusOK).SendString("Password reset successfully")
}
