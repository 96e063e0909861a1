// controllers/logs.go
package controllers

import (
	"net/http"

	"gtr-backend/config"
	"gtr-backend/models"
	"gtr-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetSentLogs lists send-log entries, newest first. The log is
// append-only; there is no write surface here.
func GetSentLogs(c *gin.Context) {
	query := config.DB.Order("sent_at DESC")

	if userID := c.Query("userId"); userID != "" {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		query = query.Where("user_id = ?", userUUID)
	}

	var logs []models.SentLog
	if err := query.Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
