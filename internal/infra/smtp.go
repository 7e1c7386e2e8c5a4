package infra

import (
	"fmt"
	"net/smtp"

	"workforce/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text notifications over SMTP through a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
}

// NewMailer returns nil when SMTP_HOST is empty: notifications are disabled.
func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Send delivers one message. ErrCircuitOpen is returned while the SMTP
// server is considered down.
func (m *Mailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	send := func() error {
		if err := e.Send(m.addr, auth); err != nil {
			return fmt.Errorf("mailer: send to %s: %w", to, err)
		}
		return nil
	}
	if m.cb == nil {
		return send()
	}
	return m.cb.Execute(send)
}

// BreakerState exposes the SMTP circuit state for the health check.
func (m *Mailer) BreakerState() CBState {
	if m == nil || m.cb == nil {
		return CBClosed
	}
	return m.cb.State()
}
