package handlers

import (
	"errors"
	"strings"

	"fintrack/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal Server Error"

var validate = validator.New()

// fieldLabels names request fields in validation messages.
var fieldLabels = map[string]string{
	"Email":       "email",
	"OTP":         "OTP",
	"Password":    "password",
	"NewPassword": "new password",
	"ResetToken":  "reset token",
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return fiber.StatusBadRequest
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindConflict:
		return fiber.StatusConflict
	case service.KindUnauthorized:
		return fiber.StatusUnauthorized
	case service.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Only messages authored in the
// service layer reach the client; wrapped causes are logged.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	kind := service.KindOf(err)
	message := internalErrorMessage

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	if kind == service.KindInternal {
		logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		logger.Debug("Request rejected", zap.String("path", c.Path()), zap.String("kind", kind.String()), zap.String("message", message))
	}

	return c.Status(statusFor(kind)).JSON(fiber.Map{"message": message})
}

// bind parses the JSON body into req and checks its validate tags.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return service.Validation("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return service.Validation(requiredMessage(fieldErrs))
		}
		return service.Validation("Invalid request body")
	}
	return nil
}

// requiredMessage renders "Email is required" or "Email and OTP are required".
func requiredMessage(fieldErrs validator.ValidationErrors) string {
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = strings.ToLower(fe.Field())
		}
		names = append(names, label)
	}
	names[0] = strings.ToUpper(names[0][:1]) + names[0][1:]

	switch len(names) {
	case 1:
		return names[0] + " is required"
	case 2:
		return names[0] + " and " + names[1] + " are required"
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1] + " are required"
	}
}
