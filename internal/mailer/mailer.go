// Package mailer delivers the rendered brief over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP delivery configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	To       []string
}

// SMTP sends the brief with STARTTLS and password auth, the way the
// usual transactional SMTP providers expect.
type SMTP struct {
	client      *mail.Client
	from        string
	fromName    string
	to          []string
	contentType mail.ContentType
	logger      *slog.Logger
}

// New creates an SMTP mailer. contentType selects the body type of the
// rendered document (plain text for markdown output, HTML otherwise).
func New(cfg Config, contentType mail.ContentType, logger *slog.Logger) (*SMTP, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTP{
		client:      client,
		from:        cfg.Username,
		fromName:    cfg.FromName,
		to:          cfg.To,
		contentType: contentType,
		logger:      logger,
	}, nil
}

// Send delivers the document to every configured recipient.
func (m *SMTP) Send(ctx context.Context, subject, doc string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.to...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(m.contentType, doc)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("brief emailed", "recipients", len(m.to), "subject", subject)
	return nil
}
