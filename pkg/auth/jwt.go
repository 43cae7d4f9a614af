package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenPurpose tags what a token may be used for. A token is only accepted
// where its purpose is expected.
type TokenPurpose string

const (
	PurposeSession TokenPurpose = "session"
	PurposeReset   TokenPurpose = "reset"
)

type Claims struct {
	UserID      string       `json:"user_id,omitempty"`
	Email       string       `json:"email"`
	Purpose     TokenPurpose `json:"purpose"`
	Fingerprint string       `json:"pwf,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey  []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewJWTManager(secretKey, issuer string, sessionTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// WithClock returns a copy of the manager that reads time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

// GenerateSessionToken issues a bearer token for an authenticated user.
func (m *JWTManager) GenerateSessionToken(userID, email string) (string, error) {
	return m.sign(Claims{
		UserID:  userID,
		Email:   email,
		Purpose: PurposeSession,
	}, m.sessionTTL)
}

// GenerateResetToken issues a password reset credential bound to email and
// to the password hash that is current at issuance.
func (m *JWTManager) GenerateResetToken(email, passwordHash string) (string, error) {
	return m.sign(Claims{
		Email:       email,
		Purpose:     PurposeReset,
		Fingerprint: PasswordFingerprint(passwordHash),
	}, m.resetTTL)
}

func (m *JWTManager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   claims.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and purpose. It returns
// ErrTokenExpired for an otherwise valid but expired token and ErrInvalidToken
// for everything else.
func (m *JWTManager) ValidateToken(tokenString string, purpose TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: purpose %q", ErrInvalidToken, claims.Purpose)
	}

	return claims, nil
}

// PasswordFingerprint is a short digest of a password hash. It changes
// whenever the password does.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
