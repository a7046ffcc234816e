package mail

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/gomail.v2"
)

// Sender dispatches a single HTML email.
type Sender interface {
	SendHTML(to, subject, htmlBody string) error
}

// Mailer sends transactional email through an SMTP relay.
type Mailer struct {
	config *mailerConfig
	dialer *gomail.Dialer
}

// NewMailer builds a Mailer from SMTP_* environment variables. It returns an
// error when the relay is not fully configured so callers can run without
// outbound mail in dev.
func NewMailer() (*Mailer, error) {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse mailer config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Mailer{
		config: &cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// SendHTML sends an HTML email to a single recipient.
func (m *Mailer) SendHTML(to, subject, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("no recipient specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.config.From, "PitchMate AI"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}
	return nil
}
