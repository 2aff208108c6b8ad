package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/qmail-dev/qmail/shared/config"
	"github.com/qmail-dev/qmail/shared/domain"
	"github.com/qmail-dev/qmail/shared/logger"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned by Send when no SMTP server is set up.
var ErrNotConfigured = errors.New("email notifications are not configured")

// Notification tells a recovery address that a message arrived.
type Notification struct {
	To        domain.Email
	Sender    domain.Email
	MessageId domain.ID
}

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	cfg      config.Email
	dialer   Dialer
	template *Template
}

func NewEmailSender(cfg config.Email, tmpl *Template) *EmailSender {
	s := &EmailSender{cfg: cfg, template: tmpl}
	if !cfg.Enabled() {
		logger.Log.Warn("smtp server not configured, new-message notifications are disabled")
		return s
	}
	s.dialer = newDialer(cfg)
	return s
}

func newDialer(cfg config.Email) *gomail.Dialer {
	d := &gomail.Dialer{Host: cfg.SMTPServer, Port: cfg.SMTPPort}
	if cfg.UseCredentials {
		d = gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.Username, cfg.Password)
	}
	d.SSL = cfg.SSLTLS
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTPServer,
		InsecureSkipVerify: !cfg.ValidateCerts, //nolint:gosec // operator controlled via VALIDATE_CERTS
	}
	return d
}

func (s *EmailSender) message(n Notification) (*gomail.Message, error) {
	body, err := s.template.HTML(n.Sender)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	if s.cfg.SenderName != "" {
		m.SetAddressHeader("From", s.cfg.From, s.cfg.SenderName)
	} else {
		m.SetHeader("From", s.cfg.From)
	}
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", s.template.Subject(n.Sender))
	m.SetBody("text/html", body)
	return m, nil
}

// Send delivers one notification. gomail has no context support, so a
// cancelled ctx only stops the wait; the SMTP exchange finishes in the background.
func (s *EmailSender) Send(ctx context.Context, n Notification) error {
	if s.dialer == nil {
		return ErrNotConfigured
	}
	m, err := s.message(n)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
