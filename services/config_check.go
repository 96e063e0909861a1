// services/config_check.go
package services

import (
	"fmt"
	"time"

	"gtr-backend/config"
)

type ChannelCheck struct {
	Success bool   `json:"success"`
	Details string `json:"details"`
}

// CheckChannelConfig verifies the delivery configuration without
// running a pass: a test email is sent to the configured from-address,
// and the chat sender is started and released again. Senders are
// passed in so the check runs against the same implementations a real
// pass would use.
func CheckChannelConfig(cfg config.SMTPConfig, email EmailSender, chat ChatSender) (ChannelCheck, ChannelCheck) {
	var emailCheck ChannelCheck
	if cfg.FromEmail == "" {
		emailCheck = ChannelCheck{Success: false, Details: "From email not configured"}
	} else {
		body := fmt.Sprintf("This is a test email sent at %s.", time.Now().Format(time.RFC3339))
		ok, details := email.Send(cfg.FromEmail, "SMTP configuration test", body, cfg)
		emailCheck = ChannelCheck{Success: ok, Details: details}
	}

	var chatCheck ChannelCheck
	if err := chat.Start(); err != nil {
		chatCheck = ChannelCheck{Success: false, Details: err.Error()}
	} else {
		chat.Close()
		chatCheck = ChannelCheck{Success: true, Details: "WhatsApp sender initialized"}
	}

	return emailCheck, chatCheck
}
