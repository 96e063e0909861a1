// services/dispatch.go
package services

import (
	"fmt"
	"log"
	"time"

	"gtr-backend/config"
	"gtr-backend/models"
	"gtr-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DispatchRecord is one delivery decision taken during a pass. Birthday
// records carry a nil ReminderID. The session-failure record (chat
// backend could not start) carries neither ID.
type DispatchRecord struct {
	UserID     uuid.UUID  `json:"user_id"`
	ReminderID *uuid.UUID `json:"reminder_id"`
	SentAt     time.Time  `json:"sent_at"`
	Channel    string     `json:"channel"`
	Success    bool       `json:"success"`
	Details    string     `json:"details"`
}

// EmailSender delivers a single message over SMTP. It never returns an
// error; failures come back as (false, error text).
type EmailSender interface {
	Send(to, subject, body string, cfg config.SMTPConfig) (bool, string)
}

// ChatSender is the WhatsApp delivery backend. Start may fail (missing
// credentials, unreachable backend); the dispatch pass treats that as
// recoverable and continues without chat delivery.
type ChatSender interface {
	Start() error
	Send(number, message string) (bool, string)
	Close()
}

// DispatchService runs the reminder/birthday processing pass. It holds
// no state between passes; everything is fetched fresh per invocation.
// Concurrent passes are not guarded against and must be prevented by
// the caller (single-instance cron).
type DispatchService struct {
	db      *gorm.DB
	email   EmailSender
	newChat func() ChatSender
	now     func() time.Time
}

func NewDispatchService(db *gorm.DB) *DispatchService {
	return &DispatchService{
		db:      db,
		email:   &SMTPSender{},
		newChat: func() ChatSender { return &WhatsAppSender{} },
		now:     time.Now,
	}
}

// dueReminder is a reminder row joined to its owner's contact fields.
type dueReminder struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	RemindAt    time.Time
	Channel     string
	UserName    string
	UserEmail   string
	UserPhone   string
}

// RunPass executes one synchronous dispatch pass: due reminders first,
// then today's birthdays. Every delivery decision, attempted or not, is
// appended to the returned slice and persisted to sent_log. No failure
// inside the pass aborts it; effects are committed per item, so a
// mid-pass crash leaves partial progress rather than rolling back.
func (s *DispatchService) RunPass(cfg config.SMTPConfig, dryRun bool) []DispatchRecord {
	records := []DispatchRecord{}
	now := s.now()

	// Chat session is scoped to this pass: acquired here, released on
	// every exit path. Failure to start is non-fatal; the pass runs on
	// without chat delivery.
	var chat ChatSender
	if !dryRun {
		candidate := s.newChat()
		if err := candidate.Start(); err != nil {
			log.Printf("[DISPATCH] WhatsApp sender failed to start: %v", err)
			records = append(records, DispatchRecord{
				SentAt:  now,
				Details: fmt.Sprintf("failed to start WhatsApp sender: %v", err),
			})
		} else {
			chat = candidate
			defer chat.Close()
		}
	}

	// 1) scheduled reminders
	var pending []dueReminder
	err := s.db.Raw(`
		SELECT r.id, r.user_id, r.title, r.description, r.remind_at, r.channel,
		       u.name AS user_name, u.email AS user_email, u.phone AS user_phone
		FROM reminders r
		JOIN users u ON u.id = r.user_id
		WHERE r.sent = ? AND r.deleted_at IS NULL AND u.deleted_at IS NULL
	`, false).Scan(&pending).Error
	if err != nil {
		log.Printf("[DISPATCH] failed to fetch pending reminders: %v", err)
	}

	for _, r := range pending {
		if now.Before(r.RemindAt) {
			continue
		}

		channels := []string{r.Channel}
		if r.Channel == models.ChannelBoth {
			channels = []string{models.ChannelEmail, models.ChannelWhatsApp}
		}

		for _, ch := range channels {
			success := false
			details := "not attempted"

			switch {
			case ch == models.ChannelEmail && r.UserEmail != "":
				subject := "Reminder: " + r.Title
				body := fmt.Sprintf("Hello %s,\n\nReminder: %s\n\n%s\n\nBest regards",
					r.UserName, r.Title, r.Description)
				if dryRun {
					success, details = true, "dry run"
				} else {
					success, details = s.email.Send(r.UserEmail, subject, body, cfg)
				}

			case ch == models.ChannelWhatsApp && r.UserPhone != "":
				phone := utils.NormalizePhone(r.UserPhone)
				message := fmt.Sprintf("Reminder: %s\n%s", r.Title, r.Description)
				if dryRun {
					success, details = true, "dry run"
				} else if chat != nil {
					success, details = chat.Send(phone, message)
				} else {
					details = "WhatsApp sender not initialized"
				}
			}

			reminderID := r.ID
			records = append(records, s.record(DispatchRecord{
				UserID:     r.UserID,
				ReminderID: &reminderID,
				SentAt:     s.now(),
				Channel:    ch,
				Success:    success,
				Details:    details,
			}))
		}

		// Marked sent once, unconditionally, whatever the per-channel
		// outcomes. There is no per-channel retry.
		if err := s.db.Model(&models.Reminder{}).Where("id = ?", r.ID).
			Update("sent", true).Error; err != nil {
			log.Printf("[DISPATCH] failed to mark reminder %s sent: %v", r.ID, err)
		}
	}

	// 2) today's birthdays
	var users []models.User
	if err := s.db.Where("birthdate <> ''").Find(&users).Error; err != nil {
		log.Printf("[DISPATCH] failed to fetch users for birthdays: %v", err)
	}

	for _, u := range users {
		bd, err := time.Parse("2006-01-02", u.Birthdate)
		if err != nil {
			continue
		}
		if !utils.SameMonthDay(bd, now) {
			continue
		}
		if s.birthdaySentToday(u.ID, now) {
			continue
		}

		if u.Email != "" {
			success, details := false, ""
			if dryRun {
				success, details = true, "dry run"
			} else {
				body := fmt.Sprintf("Hello %s,\n\nWe wish you a happy birthday!\n\nBest regards", u.Name)
				success, details = s.email.Send(u.Email, "Happy birthday!", body, cfg)
			}
			records = append(records, s.record(DispatchRecord{
				UserID:  u.ID,
				SentAt:  s.now(),
				Channel: "email (birthday)",
				Success: success,
				Details: details,
			}))
		}

		if u.Phone != "" {
			success, details := false, ""
			if dryRun {
				success, details = true, "dry run"
			} else if chat != nil {
				phone := utils.NormalizePhone(u.Phone)
				message := fmt.Sprintf("Happy birthday, %s! 🎉\nAll the best, today and always.", u.Name)
				success, details = chat.Send(phone, message)
			} else {
				details = "WhatsApp sender not initialized"
			}
			records = append(records, s.record(DispatchRecord{
				UserID:  u.ID,
				SentAt:  s.now(),
				Channel: "whatsapp (birthday)",
				Success: success,
				Details: details,
			}))
		}
	}

	return records
}

// birthdaySentToday checks the send log for any birthday row for this
// user on today's calendar date. The match is per user per day, across
// both concrete channels.
func (s *DispatchService) birthdaySentToday(userID uuid.UUID, now time.Time) bool {
	dayStart := utils.BeginningOfDay(now)
	var count int64
	s.db.Model(&models.SentLog{}).
		Where("user_id = ? AND sent_at >= ? AND sent_at < ? AND channel LIKE ?",
			userID, dayStart, dayStart.AddDate(0, 0, 1), "%birthday%").
		Count(&count)
	return count > 0
}

// record persists a dispatch record to sent_log and returns it. A log
// write failure is reported but never aborts the pass.
func (s *DispatchService) record(rec DispatchRecord) DispatchRecord {
	row := models.SentLog{
		UserID:     rec.UserID,
		ReminderID: rec.ReminderID,
		SentAt:     rec.SentAt,
		Channel:    rec.Channel,
		Success:    rec.Success,
		Details:    rec.Details,
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("[DISPATCH] failed to write sent_log for user %s: %v", rec.UserID, err)
	}
	return rec
}
