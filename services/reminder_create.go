// services/reminder_create.go
package services

import (
	"fmt"
	"time"

	"gtr-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AudienceUser = "user"
	AudienceAll  = "all"
	AudienceUtec = "utec"
	AudienceRole = "role"
)

// Audience describes who a reminder is for. Resolving it to a concrete
// recipient list is separate from creating the rows, so a single-
// recipient schedule and a site-wide fan-out share the same creation
// path.
type Audience struct {
	Type   string
	UserID uuid.UUID
	Utec   string
	Role   string
}

func ResolveAudience(db *gorm.DB, a Audience) ([]models.User, error) {
	var users []models.User
	var err error

	switch a.Type {
	case AudienceUser:
		var user models.User
		if err = db.First(&user, "id = ?", a.UserID).Error; err == nil {
			users = append(users, user)
		}
	case AudienceAll:
		err = db.Find(&users).Error
	case AudienceUtec:
		err = db.Where("utec = ?", a.Utec).Find(&users).Error
	case AudienceRole:
		err = db.Where("role = ?", a.Role).Find(&users).Error
	default:
		err = fmt.Errorf("invalid audience type: %s", a.Type)
	}

	return users, err
}

// CreateReminderBatch inserts one reminder row per recipient in a
// single batch.
func CreateReminderBatch(db *gorm.DB, recipients []models.User, title, description string, remindAt time.Time, channel string) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0, len(recipients))
	for _, u := range recipients {
		reminders = append(reminders, models.Reminder{
			UserID:      u.ID,
			Title:       title,
			Description: description,
			RemindAt:    remindAt,
			Channel:     channel,
		})
	}

	if len(reminders) == 0 {
		return reminders, nil
	}
	if err := db.Create(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}
