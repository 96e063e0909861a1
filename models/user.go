package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff member of the training-center network and the target
// of reminders and birthday greetings.
type User struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"not null"`

	// ISO date (YYYY-MM-DD). Kept as text: imported data contains
	// malformed values and the dispatch pass skips those instead of
	// rejecting the row at write time.
	Birthdate string

	Role  string `gorm:"index"`
	Utec  string `gorm:"index"` // site/location the user belongs to
	Email string `gorm:"not null"`
	Phone string // digits only, leading zeros stripped

	gorm.Model
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	return
}
