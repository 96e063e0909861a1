// controllers/dispatch.go
package controllers

import (
	"errors"
	"io"
	"net/http"

	"gtr-backend/config"
	"gtr-backend/services"
	"gtr-backend/utils"

	"github.com/gin-gonic/gin"
)

type RunDispatchInput struct {
	DryRun bool `json:"dryRun"`
}

// RunDispatch triggers one dispatch pass and returns the records. The
// pass is synchronous; with real transports this request can take a
// while. Protecting against concurrent passes is left to the caller.
func RunDispatch(c *gin.Context) {
	// Empty body means a real run.
	var input RunDispatchInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewDispatchService(config.DB)
	records := svc.RunPass(config.SMTPConfigFromEnv(), input.DryRun)

	c.JSON(http.StatusOK, gin.H{
		"actions": len(records),
		"records": records,
	})
}

// CheckDispatchConfig verifies the configured transports without
// running a pass: a test email goes to the from-address and the chat
// sender is started and released.
func CheckDispatchConfig(c *gin.Context) {
	emailCheck, chatCheck := services.CheckChannelConfig(
		config.SMTPConfigFromEnv(), &services.SMTPSender{}, &services.WhatsAppSender{})

	c.JSON(http.StatusOK, gin.H{
		"email":    emailCheck,
		"whatsapp": chatCheck,
	})
}
