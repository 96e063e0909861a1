// config/smtp.go
package config

import (
	"os"
	"strconv"
)

// SMTPConfig carries everything the email sender needs for one pass.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	UseTLS    bool
}

// SMTPConfigFromEnv assembles the sender configuration from the
// environment. FromEmail falls back to the username, matching the most
// common SMTP provider setup.
func SMTPConfigFromEnv() SMTPConfig {
	port := 587
	if env := os.Getenv("SMTP_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	useTLS := true
	if env := os.Getenv("SMTP_USE_TLS"); env != "" {
		if b, err := strconv.ParseBool(env); err == nil {
			useTLS = b
		}
	}

	return SMTPConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      port,
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: from,
		UseTLS:    useTLS,
	}
}
