package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"TalentScout/internal/config"
	"TalentScout/internal/domain"
	"TalentScout/internal/ports"
)

// SMTPNotifier delivers candidate outreach over SMTP. Without credentials it
// runs in dev mode: the message is logged instead of sent and delivery is
// reported as successful, so local setups work without a mail account.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *slog.Logger

	// sendMail is swapped out in tests.
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier builds the notifier from mail settings.
func NewSMTPNotifier(cfg config.SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger, sendMail: smtp.SendMail}
}

// Notify sends one plain-text message to the candidate's email address.
func (n *SMTPNotifier) Notify(_ context.Context, candidate *domain.Candidate, subject, body string) (bool, error) {
	if candidate == nil || candidate.Email == "" {
		return false, fmt.Errorf("notify: candidate has no email")
	}

	if n.cfg.User == "" || n.cfg.Password == "" {
		if n.logger != nil {
			n.logger.Info("email not sent (dev mode)",
				"to", candidate.Email, "subject", subject, "body", body)
		}
		return true, nil
	}

	from := n.cfg.From
	if from == "" {
		from = n.cfg.User
	}

	msg := buildMessage(from, candidate.Email, subject, body)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	if err := n.sendMail(addr, auth, from, []string{candidate.Email}, msg); err != nil {
		return false, fmt.Errorf("send mail to %s: %w", candidate.Email, err)
	}

	if n.logger != nil {
		n.logger.Info("email sent", "to", candidate.Email, "subject", subject)
	}
	return true, nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
