package service

import (
	"context"

	"fintrack/pkg/mailer"

	"go.uber.org/zap"
)

// MailService sends the operator test message.
type MailService struct {
	mailer    mailer.Mailer
	recipient string
	logger    *zap.Logger
}

func NewMailService(m mailer.Mailer, recipient string, logger *zap.Logger) *MailService {
	return &MailService{
		mailer:    m,
		recipient: recipient,
		logger:    logger,
	}
}

// SendTest delivers a fixed message to the configured recipient and returns
// the message id.
func (s *MailService) SendTest(ctx context.Context) (string, error) {
	if s.recipient == "" {
		return "", ErrMailNotConfigured
	}

	id, err := s.mailer.Send(ctx, s.recipient, "Test", "From backend")
	if err != nil {
		s.logger.Error("Failed to send test email", zap.Error(err))
		return "", &Error{Kind: KindInternal, Message: "Failed to send email", Err: err}
	}

	s.logger.Info("Test email sent", zap.String("message_id", id))
	return id, nil
}
