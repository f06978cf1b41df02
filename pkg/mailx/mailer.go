// Package mailx sends transactional mail (verification links, one-time login
// codes, password resets) over SMTP.
package mailx

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Email represents an email message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Config carries SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer is the SMTP-backed Sender.
type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
}

// NewMailer creates a Mailer for the given SMTP configuration.
func NewMailer(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("mailx: host and from address are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// Send sends a single email. The context is consulted before dialing; gomail
// itself does not support cancellation mid-send.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return fmt.Errorf("mailx: no recipient specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Body)

	return m.dialer.DialAndSend(msg)
}
