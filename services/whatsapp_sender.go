// services/whatsapp_sender.go
package services

import (
	"errors"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppSender delivers chat messages through the Twilio WhatsApp
// API. The client lives only between Start and Close, one dispatch
// pass at a time.
type WhatsAppSender struct {
	client *twilio.RestClient
	from   string
}

func (w *WhatsAppSender) Start() error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_NUMBER")
	if accountSid == "" || authToken == "" || from == "" {
		return errors.New("twilio credentials not configured")
	}

	w.client = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	w.from = from
	return nil
}

// Send expects a normalized digit string without the leading "+".
func (w *WhatsAppSender) Send(number, message string) (bool, string) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + number)
	params.SetFrom("whatsapp:" + w.from)
	params.SetBody(message)

	resp, err := w.client.Api.CreateMessage(params)
	if err != nil {
		return false, err.Error()
	}
	if resp.Sid != nil {
		return true, "Sent (SID " + *resp.Sid + ")"
	}
	return true, "Sent"
}

func (w *WhatsAppSender) Close() {
	w.client = nil
}
