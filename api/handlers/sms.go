package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twilio/twilio-go/twiml"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/indysafe/safety-bot-api/cache"
	"github.com/indysafe/safety-bot-api/config"
	"github.com/indysafe/safety-bot-api/databases"
	"github.com/indysafe/safety-bot-api/geo"
	"github.com/indysafe/safety-bot-api/images"
	"github.com/indysafe/safety-bot-api/models"
	"github.com/indysafe/safety-bot-api/vehicles"
)

// MediaFetcher downloads a media attachment.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// VINExtractor pulls a VIN out of a photo, or returns "" when none is
// recognized.
type VINExtractor interface {
	Extract(image []byte) string
}

// CallPlacer starts an outbound voice call that fetches its TwiML
// from twimlURL.
type CallPlacer interface {
	PlaceCall(to, from, twimlURL string) error
}

// SMS exposes the incoming-message webhook and its command dispatch.
type SMS struct {
	Reports   databases.ReportDatabase
	BaitLogs  databases.BaitCarLogDatabase
	Fetcher   MediaFetcher
	Extractor VINExtractor
	Sanitizer images.Processor
	Locator   geo.BaitCarLocator
	Checker   vehicles.StolenChecker
	Locations cache.LocationCache // nil when redis is unavailable
	Caller    CallPlacer
	Config    config.Config
}

const helpReply = "Indianapolis Public Safety Bot Commands:\n" +
	"- 'report [details]' + photo: Report suspicious activity\n" +
	"- 'check vin' + photo: Check if a vehicle is stolen\n" +
	"- 'bait cars': Check for nearby bait cars\n" +
	"- 'RED': Emergency help (triggers call)\n" +
	"- 'call mom': Fake family emergency call"

// IncomingHandler handles POST /sms. Commands are matched by
// substring, with the emergency keywords checked first so a panicked
// message like "help RED now" always triggers the call.
func (s *SMS) IncomingHandler(w http.ResponseWriter, r *http.Request) {
	body := strings.ToLower(strings.TrimSpace(r.FormValue("Body")))
	from := r.FormValue("From")
	numMedia, _ := strconv.Atoi(r.FormValue("NumMedia"))
	lat, lon, hasLocation := parseLocation(r)

	ctx := r.Context()

	if hasLocation && s.Locations != nil {
		if err := s.Locations.SetLocation(ctx, from, lat, lon); err != nil {
			zap.S().Warnw("failed to cache sender location", "error", err)
		}
	}

	switch {
	case strings.Contains(body, "red"):
		if err := s.Caller.PlaceCall(from, s.Config.TwilioPhoneNumber, s.Config.BaseURL+"/voice/emergency"); err != nil {
			config.ErrorStatus("failed to place emergency call", http.StatusInternalServerError, w, err)
			return
		}
		writeMessageResponse(w, "Initiating emergency call to your phone. Stay safe.")

	case strings.Contains(body, "call mom"):
		if err := s.Caller.PlaceCall(from, s.Config.TwilioPhoneNumber, s.Config.BaseURL+"/voice/family"); err != nil {
			config.ErrorStatus("failed to place family call", http.StatusInternalServerError, w, err)
			return
		}
		writeMessageResponse(w, "Initiating family emergency call to your phone.")

	case strings.Contains(body, "report") && numMedia > 0:
		s.fileReport(ctx, w, r, body, numMedia, lat, lon, hasLocation)

	case strings.Contains(body, "check vin") && numMedia > 0:
		s.checkVIN(ctx, w, r, numMedia)

	case strings.Contains(body, "bait cars"):
		s.baitCars(ctx, w, from, lat, lon, hasLocation)

	default:
		writeMessageResponse(w, helpReply)
	}
}

// fileReport stores an anonymous crime report along with its
// sanitized photos. A photo that fails to process is skipped rather
// than losing the report.
func (s *SMS) fileReport(ctx context.Context, w http.ResponseWriter, r *http.Request, body string, numMedia int, lat, lon float64, hasLocation bool) {
	reportText := strings.TrimSpace(strings.ReplaceAll(body, "report", ""))

	var imagePaths []string
	for i := 0; i < numMedia; i++ {
		mediaURL := r.FormValue(fmt.Sprintf("MediaUrl%d", i))
		mediaType := r.FormValue(fmt.Sprintf("MediaContentType%d", i))
		if !strings.HasPrefix(mediaType, "image/") {
			continue
		}
		path, err := s.Sanitizer.Process(ctx, mediaURL)
		if err != nil {
			zap.S().Errorw("failed to process report image", "url", mediaURL, "error", err)
			continue
		}
		imagePaths = append(imagePaths, path)
	}

	report := models.Report{
		Text:      reportText,
		Images:    imagePaths,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if hasLocation {
		report.Latitude = &lat
		report.Longitude = &lon
	}

	id, err := s.Reports.InsertOne(ctx, report)
	if err != nil {
		config.ErrorStatus("failed to save report", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("saved anonymous report", "reportId", id.Hex(), "images", len(imagePaths))
	writeMessageResponse(w, fmt.Sprintf("Thank you for your report. Your anonymous report ID is %s. "+
		"All images have been processed to protect privacy. The report will be automatically deleted after 48 hours.", id.Hex()))
}

// checkVIN OCRs the first attached photo and looks the number up in
// the stolen vehicle database.
func (s *SMS) checkVIN(ctx context.Context, w http.ResponseWriter, r *http.Request, numMedia int) {
	for i := 0; i < numMedia; i++ {
		mediaURL := r.FormValue(fmt.Sprintf("MediaUrl%d", i))
		mediaType := r.FormValue(fmt.Sprintf("MediaContentType%d", i))
		if !strings.HasPrefix(mediaType, "image/") {
			continue
		}

		raw, err := s.Fetcher.Fetch(ctx, mediaURL)
		if err != nil {
			zap.S().Errorw("failed to fetch vin photo", "url", mediaURL, "error", err)
			writeMessageResponse(w, "Could not detect a VIN in the image. Please try with a clearer photo of the VIN plate.")
			return
		}

		number := s.Extractor.Extract(raw)
		if number == "" {
			writeMessageResponse(w, "Could not detect a VIN in the image. Please try with a clearer photo of the VIN plate.")
			return
		}

		record, err := s.Checker.Check(ctx, number)
		if err != nil {
			// degrade to not-stolen rather than erroring the
			// conversation; the log keeps lookup outages visible
			zap.S().Errorw("stolen vehicle lookup failed", "vin", number, "error", err)
			record = vehicles.Record{VIN: number}
		}

		if record.Stolen {
			writeMessageResponse(w, fmt.Sprintf("⚠️ ALERT: This vehicle with VIN %s is REPORTED STOLEN. Do not approach. Contact IMPD at 317-327-3811.", number))
		} else {
			writeMessageResponse(w, fmt.Sprintf("✅ Vehicle with VIN %s is not reported stolen in our database.", number))
		}
		return
	}

	writeMessageResponse(w, "Please send a photo of the vehicle's VIN plate for checking.")
}

// baitCars answers whether an active bait car sits near the sender.
// Without a location share we fall back to the sender's last cached
// position before giving up.
func (s *SMS) baitCars(ctx context.Context, w http.ResponseWriter, from string, lat, lon float64, hasLocation bool) {
	if !hasLocation && s.Locations != nil {
		cachedLat, cachedLon, ok, err := s.Locations.GetLocation(ctx, from)
		if err != nil {
			zap.S().Warnw("failed to read cached location", "error", err)
		} else if ok {
			lat, lon, hasLocation = cachedLat, cachedLon, true
		}
	}

	if !hasLocation {
		writeMessageResponse(w, "Location information is needed to check for nearby bait cars. Please enable location sharing.")
		return
	}

	hotspot, found := s.Locator.Nearby(lat, lon)
	if !found {
		writeMessageResponse(w, "No active bait cars currently reported in your immediate area.")
		return
	}

	if err := s.BaitLogs.InsertOne(ctx, models.BaitCarLog{
		Latitude:         hotspot.Latitude,
		Longitude:        hotspot.Longitude,
		NotificationSent: true,
		CreatedAt:        primitive.NewDateTimeFromTime(time.Now()),
	}); err != nil {
		zap.S().Errorw("failed to log bait car notification", "error", err)
	}

	writeMessageResponse(w, "🚨 Police bait car active near you. Park here to deter theft!")
}

func parseLocation(r *http.Request) (float64, float64, bool) {
	latStr := r.FormValue("Latitude")
	lonStr := r.FormValue("Longitude")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// writeMessageResponse renders a single-message TwiML reply.
func writeMessageResponse(w http.ResponseWriter, body string) {
	doc, err := twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: body},
	})
	if err != nil {
		config.ErrorStatus("failed to render twiml response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}
