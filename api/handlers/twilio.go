package handlers

import (
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioCaller places real outbound calls through the Twilio REST
// API.
type TwilioCaller struct {
	client *twilio.RestClient
}

// NewTwilioCaller builds a caller from account credentials.
func NewTwilioCaller(accountSID, authToken string) *TwilioCaller {
	return &TwilioCaller{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

// PlaceCall dials `to` from the bot's number; Twilio fetches the call
// script from twimlURL once the callee answers.
func (c *TwilioCaller) PlaceCall(to, from, twimlURL string) error {
	params := &twilioApi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetUrl(twimlURL)

	resp, err := c.client.Api.CreateCall(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		zap.S().Infow("placed outbound call", "sid", *resp.Sid)
	}
	return nil
}
