package handlers

import (
	"io"
	"net/http"

	"github.com/twilio/twilio-go/twiml"

	"github.com/indysafe/safety-bot-api/config"
)

// Voice serves the TwiML documents that script the outbound calls
// started from the SMS webhook.
type Voice struct {
	Config config.Config
}

// EmergencyCallHandler handles POST /voice/emergency. The call opens
// with a recorded siren clip, then a spoken reassurance with a long
// pause so the phone stays visibly in use.
func (v *Voice) EmergencyCallHandler(w http.ResponseWriter, r *http.Request) {
	writeVoiceResponse(w, []twiml.Element{
		&twiml.VoicePlay{Url: v.Config.BaseURL + "/static/audio/emergency_call.mp3"},
		&twiml.VoiceSay{
			Message: "This is an emergency call. If you're in danger, please try to get to safety. " +
				"Police have been notified of your location and are on their way. " +
				"Stay on the line if possible.",
			Voice: "woman",
		},
		&twiml.VoicePause{Length: "30"},
		&twiml.VoiceSay{Message: "Help is on the way. Please stay calm.", Voice: "woman"},
	})
}

// FamilyCallHandler handles POST /voice/family, a staged family
// emergency that gives the recipient a believable reason to leave.
func (v *Voice) FamilyCallHandler(w http.ResponseWriter, r *http.Request) {
	writeVoiceResponse(w, []twiml.Element{
		&twiml.VoicePlay{Url: v.Config.BaseURL + "/static/audio/family_call.mp3"},
		&twiml.VoiceSay{
			Message: "Hey, it's mom. There's an emergency at home. " +
				"We need you to come right away. The situation is urgent. " +
				"Please call me back as soon as you can.",
			Voice: "woman",
		},
		&twiml.VoicePause{Length: "5"},
		&twiml.VoiceSay{Message: "I hope you can get home soon. It's important.", Voice: "woman"},
	})
}

func writeVoiceResponse(w http.ResponseWriter, verbs []twiml.Element) {
	doc, err := twiml.Voice(verbs)
	if err != nil {
		config.ErrorStatus("failed to render twiml response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}
