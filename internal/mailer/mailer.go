// Package mailer renders and delivers the daily shift digest email.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/shiftmatch/shiftmatch-server/internal/config"
	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

// DigestSubject matches the daily email's subject line.
const DigestSubject = "ShiftMatch: Your Top 5 Shifts Today"

// ErrNotConfigured means SMTP settings are missing and mail cannot be sent.
var ErrNotConfigured = errors.New("mailer: SMTP not configured")

// Mailer delivers digest emails over SMTP.
type Mailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// New creates a mailer from SMTP config. Returns ErrNotConfigured when the
// host or credentials are absent, so callers can skip delivery cleanly.
func New(cfg config.SMTPConfig, logger *slog.Logger) (*Mailer, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, ErrNotConfigured
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &Mailer{
		client: client,
		from:   from,
		logger: logger,
	}, nil
}

// SendDigest renders and delivers the top matches to one subscriber.
func (m *Mailer) SendDigest(ctx context.Context, recipient string, matches []domain.ScoredShift) error {
	html, err := RenderDigest(recipient, matches)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(DigestSubject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send digest to %s: %w", recipient, err)
	}

	m.logger.Info("digest sent", "recipient", recipient, "matches", len(matches))
	return nil
}
