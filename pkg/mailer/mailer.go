package mailer

import (
	"context"
	"fmt"
	"strings"

	"fintrack/pkg/config"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer delivers plain-text mail and returns the message id.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// New returns an SMTP mailer, or a LogMailer when no SMTP host is configured.
func New(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if cfg.Host == "" {
		logger.Warn("SMTP host not configured, outgoing mail will only be logged")
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if implicitTLS(cfg.Port) {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// implicitTLS reports whether port expects TLS from the first byte (SMTPS)
// rather than a STARTTLS upgrade.
func implicitTLS(port int) bool {
	return port == 465
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return "", fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	id := messageID(m.from)
	msg.SetGenHeader(mail.HeaderMessageID, id)
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("Mail sent", zap.String("to", to), zap.String("message_id", id))
	return id, nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) (string, error) {
	id := messageID("localhost")
	m.logger.Info("Mail not delivered (no SMTP host)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
		zap.String("message_id", id),
	)
	return id, nil
}

func messageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
