package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"adetta/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDisabled is returned when no SMTP host is configured.
var ErrMailerDisabled = errors.New("mailer: SMTP not configured")

// Mailer sends invoice PDFs over SMTP through a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	breaker  *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
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
		breaker:  NewCircuitBreaker(CircuitBreakerConfig{Name: "smtp", FailureThreshold: 3, OpenTimeout: time.Minute}),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// BreakerState exposes the breaker for the health endpoint.
func (m *Mailer) BreakerState() CBState { return m.breaker.State() }

// SendInvoice mails pdf as an attachment named filename.
func (m *Mailer) SendInvoice(ctx context.Context, to, subject, body, filename string, pdf []byte) error {
	if !m.Enabled() {
		return ErrMailerDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	if _, err := e.Attach(bytes.NewReader(pdf), filename, "application/pdf"); err != nil {
		return fmt.Errorf("mailer: attach PDF: %w", err)
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error {
		return m.send(e, m.addr, auth)
	})
}
