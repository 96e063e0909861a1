package models

import (
	"gtr-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is an operator login for the admin API. Accounts are never
// message recipients; staff recipients live in User.
type Account struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string    `gorm:"not null"`
	IsActive bool      `gorm:"default:true"`

	gorm.Model
}

func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = uuid.New()
	hashed, err := utils.HashPassword(a.Password)
	if err != nil {
		return err
	}
	a.Password = hashed
	return
}
