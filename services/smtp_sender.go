// services/smtp_sender.go
package services

import (
	"gtr-backend/config"

	"github.com/wneessen/go-mail"
)

// SMTPSender delivers plain-text mail over SMTP. STARTTLS is applied
// only when the config asks for it, and authentication only when a
// username is set, so the same path works against internal relays that
// take neither.
type SMTPSender struct{}

func (s *SMTPSender) Send(to, subject, body string, cfg config.SMTPConfig) (bool, string) {
	msg := mail.NewMsg()
	if err := msg.From(cfg.FromEmail); err != nil {
		return false, err.Error()
	}
	if err := msg.To(to); err != nil {
		return false, err.Error()
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return false, err.Error()
	}

	if err := client.DialAndSend(msg); err != nil {
		return false, err.Error()
	}
	return true, "Sent"
}
