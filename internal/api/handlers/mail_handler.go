package handlers

import (
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MailHandler struct {
	mailService *service.MailService
	logger      *zap.Logger
}

func NewMailHandler(mailService *service.MailService, logger *zap.Logger) *MailHandler {
	return &MailHandler{
		mailService: mailService,
		logger:      logger,
	}
}

// SendTest godoc
// @Summary Send the test email
// @Tags mail
// @Produce plain
// @Success 200 {string} string "Email sent! ID: <id>"
// @Failure 500 {object} dto.MessageResponse
// @Router /api/mail/test [get]
func (h *MailHandler) SendTest(c *fiber.Ctx) error {
	id, err := h.mailService.SendTest(c.Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).SendString("Email sent! ID: " + id)
}
