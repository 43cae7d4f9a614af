package service

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/repository"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	svc    *AuthService
	users  *repository.MemoryUserRepository
	mailer *recordingMailer
	jwt    *auth.JWTManager
	clock  *clock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	users := repository.NewMemoryUserRepository()
	m := &recordingMailer{}
	jwtManager := auth.NewJWTManager("test-secret", "fintrack-test", time.Hour, 10*time.Minute).WithClock(c.now)

	svc := NewAuthService(users, jwtManager, m, config.OTPConfig{TTL: 10 * time.Minute, Length: 6}, zap.NewNop())
	svc.now = c.now

	return &authFixture{svc: svc, users: users, mailer: m, jwt: jwtManager, clock: c}
}

func (f *authFixture) storedOTP(t *testing.T, email string) string {
	t.Helper()
	u, err := f.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return u.OTP
}

func (f *authFixture) verifiedUser(t *testing.T, email, password string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: email, Username: "Test"}))
	require.NoError(t, f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: email, OTP: f.storedOTP(t, email)}))
	_, err := f.svc.SetPassword(ctx, &dto.SetPasswordRequest{Email: email, Password: password})
	require.NoError(t, err)
}

func TestAuthService_RegisterVerifySetPasswordLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: " A@Example.com ", Username: "Ann"}))

	mail := f.mailer.last()
	assert.Equal(t, "a@example.com", mail.to)
	assert.Equal(t, "Your OTP Code", mail.subject)

	code := f.storedOTP(t, "a@example.com")
	require.Len(t, code, 6)
	assert.Contains(t, mail.body, code)
	assert.Contains(t, mail.body, "10 minutes")

	require.NoError(t, f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "a@example.com", OTP: code}))

	u, err := f.users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsEmailVerified)
	assert.Empty(t, u.OTP)
	assert.Nil(t, u.OTPExpiresAt)

	token, err := f.svc.SetPassword(ctx, &dto.SetPasswordRequest{Email: "a@example.com", Password: "s3cret"})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(token, auth.PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "User logged in successfully", resp.Message)
	assert.Equal(t, "Ann", resp.User.Name)
	assert.NotEmpty(t, resp.Token)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_VerifyOTPTwiceFails(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "b@example.com"}))
	code := f.storedOTP(t, "b@example.com")

	require.NoError(t, f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "b@example.com", OTP: code}))
	err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "b@example.com", OTP: code})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestAuthService_VerifyOTPExpired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "c@example.com"}))
	code := f.storedOTP(t, "c@example.com")

	f.clock.advance(11 * time.Minute)
	err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "c@example.com", OTP: code})
	assert.ErrorIs(t, err, ErrOTPExpired)

	u, err := f.users.GetByEmail(ctx, "c@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsEmailVerified)
}

func TestAuthService_VerifyOTPWrongCodeOrUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "d@example.com"}))

	err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "d@example.com", OTP: "not-a-code"})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "nobody@example.com", OTP: "123456"})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "d@example.com"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAuthService_RegisterVerifiedEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.verifiedUser(t, "e@example.com", "pw")

	err := f.svc.Register(context.Background(), &dto.RegisterRequest{Email: "e@example.com"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestAuthService_RegisterAgainRefreshesCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "f@example.com"}))
	f.clock.advance(9 * time.Minute)
	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "f@example.com", Username: "Fay"}))

	u, err := f.users.GetByEmail(ctx, "f@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Fay", u.Username)
	require.NotNil(t, u.OTPExpiresAt)
	assert.Equal(t, f.clock.t.Add(10*time.Minute), *u.OTPExpiresAt)
	assert.Len(t, f.mailer.sent, 2)
}

func TestAuthService_RegisterMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errSMTPDown

	err := f.svc.Register(context.Background(), &dto.RegisterRequest{Email: "g@example.com"})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, errSMTPDown)
}

func TestAuthService_ResendOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.ResendOTP(ctx, &dto.EmailRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "h@example.com"}))
	f.clock.advance(20 * time.Minute)
	require.NoError(t, f.svc.ResendOTP(ctx, &dto.EmailRequest{Email: "h@example.com"}))
	assert.Equal(t, "Resend OTP Code", f.mailer.last().subject)

	require.NoError(t, f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "h@example.com", OTP: f.storedOTP(t, "h@example.com")}))

	err = f.svc.ResendOTP(ctx, &dto.EmailRequest{Email: "h@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestAuthService_SetPasswordRequiresVerification(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "i@example.com"}))
	_, err := f.svc.SetPassword(ctx, &dto.SetPasswordRequest{Email: "i@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, err = f.svc.SetPassword(ctx, &dto.SetPasswordRequest{Email: "nobody@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_LoginWithoutPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "j@example.com"}))
	_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "j@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// verified but still without a password
	code := f.storedOTP(t, "j@example.com")
	require.NoError(t, f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: "j@example.com", OTP: code}))
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "j@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedUser(t, "k@example.com", "old-pw")

	require.NoError(t, f.svc.ForgotPassword(ctx, &dto.EmailRequest{Email: "k@example.com"}))
	assert.Equal(t, "Password Reset OTP", f.mailer.last().subject)

	resetToken, err := f.svc.VerifyResetOTP(ctx, &dto.VerifyOTPRequest{Email: "k@example.com", OTP: f.storedOTP(t, "k@example.com")})
	require.NoError(t, err)
	assert.Empty(t, f.storedOTP(t, "k@example.com"))

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "other@example.com", NewPassword: "x", ResetToken: resetToken})
	assert.ErrorIs(t, err, ErrResetEmailMismatch)

	require.NoError(t, f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "k@example.com", NewPassword: "new-pw", ResetToken: resetToken}))

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "k@example.com", Password: "old-pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "k@example.com", Password: "new-pw"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "k@example.com", NewPassword: "third-pw", ResetToken: resetToken})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ResetTokenExpires(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedUser(t, "l@example.com", "pw")

	require.NoError(t, f.svc.ForgotPassword(ctx, &dto.EmailRequest{Email: "l@example.com"}))
	resetToken, err := f.svc.VerifyResetOTP(ctx, &dto.VerifyOTPRequest{Email: "l@example.com", OTP: f.storedOTP(t, "l@example.com")})
	require.NoError(t, err)

	f.clock.advance(11 * time.Minute)
	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "l@example.com", NewPassword: "x", ResetToken: resetToken})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_SessionTokenIsNotAResetToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.verifiedUser(t, "m@example.com", "pw")

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "m@example.com", Password: "pw"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "m@example.com", NewPassword: "x", ResetToken: resp.Token})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ForgotPasswordUnverified(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.ForgotPassword(ctx, &dto.EmailRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, ErrResetNotAllowed)

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "n@example.com"}))
	err = f.svc.ForgotPassword(ctx, &dto.EmailRequest{Email: "n@example.com"})
	assert.ErrorIs(t, err, ErrResetNotAllowed)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAuthService_VerifyResetOTPRequiresVerifiedUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &dto.RegisterRequest{Email: "o@example.com"}))
	_, err := f.svc.VerifyResetOTP(ctx, &dto.VerifyOTPRequest{Email: "o@example.com", OTP: f.storedOTP(t, "o@example.com")})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTP(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}

	code, err := generateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}
