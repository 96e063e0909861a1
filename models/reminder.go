package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelBoth     = "both"
)

// Reminder is a one-time scheduled message for a single user. Audience
// fan-out ("all users", "by utec", "by role") creates one row per
// recipient at scheduling time.
type Reminder struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	RemindAt    time.Time `gorm:"not null"`
	Channel     string    `gorm:"type:varchar(20);not null"` // email, whatsapp, both
	Sent        bool      `gorm:"default:false"`

	gorm.Model
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
