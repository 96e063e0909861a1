// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"gtr-backend/config"
	"gtr-backend/models"
	"gtr-backend/services"
	"gtr-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReminderInput defines the expected JSON structure. The audience
// selects who receives the reminder; "all", "utec" and "role" fan out
// to one reminder row per matching user.
type CreateReminderInput struct {
	Audience    string    `json:"audience" binding:"required,oneof=user all utec role"`
	UserID      string    `json:"userId" binding:"required_if=Audience user"`
	Utec        string    `json:"utec" binding:"required_if=Audience utec"`
	Role        string    `json:"role" binding:"required_if=Audience role"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	RemindAt    time.Time `json:"remindAt" binding:"required"`
	Channel     string    `json:"channel" binding:"required,oneof=email whatsapp both"`
}

// UpdateReminderInput defines the expected JSON structure
type UpdateReminderInput struct {
	UserID      *string    `json:"userId"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	RemindAt    *time.Time `json:"remindAt"`
	Channel     *string    `json:"channel" binding:"omitempty,oneof=email whatsapp both"`
}

// CreateReminder schedules a reminder for the resolved audience
func CreateReminder(c *gin.Context) {
	var input CreateReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	audience := services.Audience{
		Type: input.Audience,
		Utec: input.Utec,
		Role: input.Role,
	}
	if input.Audience == services.AudienceUser {
		userUUID, err := uuid.Parse(input.UserID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		audience.UserID = userUUID
	}

	recipients, err := services.ResolveAudience(config.DB, audience)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve audience")
		}
		return
	}
	if len(recipients) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Audience matches no users")
		return
	}

	reminders, err := services.CreateReminderBatch(
		config.DB, recipients, input.Title, input.Description, input.RemindAt, input.Channel)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to schedule reminders")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"scheduled": len(reminders),
		"reminders": reminders,
	})
}

// GetReminders lists scheduled reminders, newest due date first
func GetReminders(c *gin.Context) {
	var reminders []models.Reminder
	query := config.DB.Order("remind_at DESC")

	if sent := c.Query("sent"); sent == "true" || sent == "false" {
		query = query.Where("sent = ?", sent == "true")
	}

	if err := query.Find(&reminders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminders")
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// GetReminder retrieves a single reminder by ID
func GetReminder(c *gin.Context) {
	reminderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	var reminder models.Reminder
	if err := config.DB.First(&reminder, "id = ?", reminderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Reminder not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// UpdateReminder edits a reminder. Editing never resets the sent flag.
func UpdateReminder(c *gin.Context) {
	reminderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	var input UpdateReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var reminder models.Reminder
	if err := config.DB.First(&reminder, "id = ?", reminderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Reminder not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.UserID != nil {
		userUUID, err := uuid.Parse(*input.UserID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		reminder.UserID = userUUID
	}
	if input.Title != nil {
		reminder.Title = *input.Title
	}
	if input.Description != nil {
		reminder.Description = *input.Description
	}
	if input.RemindAt != nil {
		reminder.RemindAt = *input.RemindAt
	}
	if input.Channel != nil {
		reminder.Channel = *input.Channel
	}

	if err := config.DB.Save(&reminder).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update reminder")
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder removes a reminder
func DeleteReminder(c *gin.Context) {
	reminderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	result := config.DB.Delete(&models.Reminder{}, "id = ?", reminderUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete reminder")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Reminder not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}
