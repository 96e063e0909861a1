package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SentLog records every delivery decision made by a dispatch pass, one
// row per user/channel, attempted or not. Append-only: rows are never
// updated or deleted. Birthday rows carry a nil ReminderID and a
// channel of "email (birthday)" / "whatsapp (birthday)".
type SentLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID  `gorm:"type:uuid;index"`
	ReminderID *uuid.UUID `gorm:"type:uuid;index"`
	SentAt     time.Time  `gorm:"index"`
	Channel    string     `gorm:"type:varchar(30)"`
	Success    bool
	Details    string `gorm:"type:text"`

	gorm.Model
}

func (l *SentLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}
