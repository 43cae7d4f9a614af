package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"
	"fintrack/pkg/mailer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// AuthService owns the OTP lifecycle (registration, resend, password reset)
// and issues session and reset tokens.
type AuthService struct {
	users      UserStore
	jwtManager *auth.JWTManager
	mailer     mailer.Mailer
	otpTTL     time.Duration
	otpLength  int
	now        func() time.Time
	logger     *zap.Logger
}

func NewAuthService(users UserStore, jwtManager *auth.JWTManager, m mailer.Mailer, otp config.OTPConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		mailer:     m,
		otpTTL:     otp.TTL,
		otpLength:  otp.Length,
		now:        time.Now,
		logger:     logger,
	}
}

// Register creates an unverified user (or refreshes the code of an existing
// unverified one) and mails a one-time code.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" {
		return Validation("Email is required")
	}

	user, err := s.findUser(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if user != nil && user.IsEmailVerified {
		return ErrUserExists
	}

	isNew := user == nil
	if isNew {
		now := s.now()
		user = &models.User{
			ID:        uuid.New(),
			Email:     email,
			CreatedAt: now,
		}
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		user.Username = username
	}

	code, err := s.attachOTP(user)
	if err != nil {
		return err
	}

	if isNew {
		err = s.users.Create(ctx, user)
	} else {
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return s.sendOTP(ctx, email, "Your OTP Code",
		fmt.Sprintf("Your OTP for registration is %s. It will expire in %d minutes.", code, s.otpMinutes()))
}

// VerifyOTP marks the email as verified. The code is single use.
func (s *AuthService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) error {
	user, err := s.checkOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return err
	}

	user.IsEmailVerified = true
	user.ClearOTP()
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) ResendOTP(ctx context.Context, req *dto.EmailRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" {
		return Validation("Email is required")
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	code, err := s.attachOTP(user)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return s.sendOTP(ctx, email, "Resend OTP Code",
		fmt.Sprintf("Your new OTP is %s. It will expire in %d minutes.", code, s.otpMinutes()))
}

// SetPassword stores the first password of a verified user and signs them in.
func (s *AuthService) SetPassword(ctx context.Context, req *dto.SetPasswordRequest) (string, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return "", Validation("Email and password are required")
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return "", err
	}
	if !user.IsEmailVerified {
		return "", ErrEmailNotVerified
	}

	if err := s.storePassword(ctx, user, req.Password); err != nil {
		return "", err
	}

	return s.sessionToken(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, Validation("Email and password are required")
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return nil, err
	}

	// accounts still mid-signup have no password to compare against
	if !user.HasPassword() || !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessionToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message: "User logged in successfully",
		Token:   token,
		User: dto.UserResponse{
			Email: user.Email,
			Name:  user.Username,
		},
	}, nil
}

// ForgotPassword mails a reset code to a verified user.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.EmailRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" {
		return Validation("Email is required")
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrResetNotAllowed
		}
		return err
	}
	if !user.IsEmailVerified {
		return ErrResetNotAllowed
	}

	code, err := s.attachOTP(user)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return s.sendOTP(ctx, email, "Password Reset OTP",
		fmt.Sprintf("Your OTP for password reset is %s. It will expire in %d minutes.", code, s.otpMinutes()))
}

// VerifyResetOTP consumes a reset code and returns a short-lived reset token.
func (s *AuthService) VerifyResetOTP(ctx context.Context, req *dto.VerifyOTPRequest) (string, error) {
	user, err := s.checkOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return "", err
	}
	if !user.IsEmailVerified {
		return "", ErrInvalidOTP
	}

	user.ClearOTP()
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("failed to update user: %w", err)
	}

	token, err := s.jwtManager.GenerateResetToken(user.Email, user.Password)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return token, nil
}

// ResetPassword overwrites the password of the user bound to resetToken.
// A reset token stops working once the password it was issued for changes.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" || req.NewPassword == "" || req.ResetToken == "" {
		return Validation("Email, new password and reset token are required")
	}

	claims, err := s.jwtManager.ValidateToken(req.ResetToken, auth.PurposeReset)
	if err != nil {
		return ErrInvalidResetToken
	}
	if claims.Email != email {
		return ErrResetEmailMismatch
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsEmailVerified {
		return ErrEmailNotVerified
	}
	if claims.Fingerprint != auth.PasswordFingerprint(user.Password) {
		return ErrInvalidResetToken
	}

	return s.storePassword(ctx, user, req.NewPassword)
}

func (s *AuthService) findUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// checkOTP loads the user and validates code against the stored one.
func (s *AuthService) checkOTP(ctx context.Context, rawEmail, code string) (*models.User, error) {
	email := normalizeEmail(rawEmail)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, Validation("Email and OTP are required")
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	if user.OTP == "" || user.OTP != code {
		return nil, ErrInvalidOTP
	}
	if user.OTPExpiresAt == nil || s.now().After(*user.OTPExpiresAt) {
		return nil, ErrOTPExpired
	}
	return user, nil
}

// attachOTP puts a fresh code and expiry on user.
func (s *AuthService) attachOTP(user *models.User) (string, error) {
	code, err := generateOTP(s.otpLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	now := s.now()
	user.SetOTP(code, now.Add(s.otpTTL))
	user.UpdatedAt = now
	return code, nil
}

func (s *AuthService) storePassword(ctx context.Context, user *models.User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *AuthService) sessionToken(user *models.User) (string, error) {
	token, err := s.jwtManager.GenerateSessionToken(user.ID.String(), user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// sendOTP delivers the code synchronously; a delivery failure fails the request.
func (s *AuthService) sendOTP(ctx context.Context, email, subject, body string) error {
	if _, err := s.mailer.Send(ctx, email, subject, body); err != nil {
		s.logger.Error("Failed to send OTP", zap.String("email", email), zap.Error(err))
		return &Error{Kind: KindInternal, Message: "Failed to send OTP email", Err: err}
	}
	return nil
}

func (s *AuthService) otpMinutes() int {
	return int(s.otpTTL / time.Minute)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOTP returns a uniformly random numeric code of the given length.
func generateOTP(length int) (string, error) {
	if length <= 0 || length > 18 {
		length = 6
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}
