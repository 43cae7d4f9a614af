package middleware

import (
	"errors"
	"strings"

	"fintrack/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Locals keys set by AuthMiddleware.
const (
	LocalClaims = "claims"
	LocalUserID = "userID"
	LocalEmail  = "email"
)

// AuthMiddleware accepts only session tokens. A missing header is 401, a
// bad or expired token is 403.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Access denied. No token provided.",
			})
		}

		claims, err := jwtManager.ValidateToken(token, auth.PurposeSession)
		if err != nil {
			logger.Warn("Invalid token", zap.String("path", c.Path()), zap.Error(err))
			if errors.Is(err, auth.ErrTokenExpired) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "Token has expired. Please log in again.",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid token. Access denied.",
			})
		}

		c.Locals(LocalClaims, claims)
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}
