package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/indysafe/safety-bot-api/api/handlers"
	"github.com/indysafe/safety-bot-api/config"
	"github.com/indysafe/safety-bot-api/databases/mocks"
	"github.com/indysafe/safety-bot-api/geo"
	"github.com/indysafe/safety-bot-api/vehicles"
)

type fakeCaller struct {
	to, from, url string
	err           error
}

func (f *fakeCaller) PlaceCall(to, from, twimlURL string) error {
	f.to, f.from, f.url = to, from, twimlURL
	return f.err
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, f.err
}

type fakeExtractor struct {
	vin string
}

func (f *fakeExtractor) Extract(image []byte) string { return f.vin }

type fakeSanitizer struct {
	paths []string
	err   error
}

func (f *fakeSanitizer) Process(ctx context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := "static/uploads/sanitized.jpg"
	f.paths = append(f.paths, path)
	return path, nil
}

type fakeChecker struct {
	stolen bool
	err    error
}

func (f *fakeChecker) Check(ctx context.Context, vin string) (vehicles.Record, error) {
	return vehicles.Record{VIN: vin, Stolen: f.stolen, Make: "Honda", Model: "Accord"}, f.err
}

type fakeLocations struct {
	stored map[string][2]float64
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{stored: make(map[string][2]float64)}
}

func (f *fakeLocations) SetLocation(ctx context.Context, phone string, lat, lon float64) error {
	f.stored[phone] = [2]float64{lat, lon}
	return nil
}

func (f *fakeLocations) GetLocation(ctx context.Context, phone string) (float64, float64, bool, error) {
	loc, ok := f.stored[phone]
	if !ok {
		return 0, 0, false, nil
	}
	return loc[0], loc[1], true, nil
}

func testConfig() config.Config {
	return config.Config{
		BaseURL:           "https://bot.example.com",
		TwilioPhoneNumber: "+13175550100",
	}
}

func smsRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIncomingRedTriggersEmergencyCall(t *testing.T) {
	caller := &fakeCaller{}
	s := handlers.SMS{Caller: caller, Config: testConfig()}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From": {"+13175550123"},
		"Body": {"help RED now"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Initiating emergency call to your phone. Stay safe.")
	assert.Equal(t, "+13175550123", caller.to)
	assert.Equal(t, "+13175550100", caller.from)
	assert.Equal(t, "https://bot.example.com/voice/emergency", caller.url)
}

func TestIncomingCallMomTriggersFamilyCall(t *testing.T) {
	caller := &fakeCaller{}
	s := handlers.SMS{Caller: caller, Config: testConfig()}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From": {"+13175550123"},
		"Body": {"call mom"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Initiating family emergency call to your phone.")
	assert.Equal(t, "https://bot.example.com/voice/family", caller.url)
}

func TestIncomingUnknownCommandGetsHelp(t *testing.T) {
	s := handlers.SMS{Config: testConfig()}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From": {"+13175550123"},
		"Body": {"hello there"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Indianapolis Public Safety Bot Commands")
}

func TestIncomingReportWithImage(t *testing.T) {
	reportDB := new(mocks.ReportDatabase)
	id := primitive.NewObjectID()
	reportDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Report")).Return(id, nil)

	sanitizer := &fakeSanitizer{}
	s := handlers.SMS{
		Reports:   reportDB,
		Sanitizer: sanitizer,
		Config:    testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"report broken window on my street"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/abc"},
		"MediaContentType0": {"image/jpeg"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), id.Hex())
	assert.Contains(t, rr.Body.String(), "automatically deleted after 48 hours")
	assert.Len(t, sanitizer.paths, 1)
	reportDB.AssertExpectations(t)
}

func TestIncomingReportSkipsFailedImages(t *testing.T) {
	reportDB := new(mocks.ReportDatabase)
	id := primitive.NewObjectID()
	reportDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Report")).Return(id, nil)

	s := handlers.SMS{
		Reports:   reportDB,
		Sanitizer: &fakeSanitizer{err: assert.AnError},
		Config:    testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"report suspicious van"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/abc"},
		"MediaContentType0": {"image/jpeg"},
	}))

	// the report is still saved without the image
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), id.Hex())
	reportDB.AssertExpectations(t)
}

func TestIncomingCheckVINNotStolen(t *testing.T) {
	s := handlers.SMS{
		Fetcher:   &fakeFetcher{data: []byte("img")},
		Extractor: &fakeExtractor{vin: "1HGCM82633A123456"},
		Checker:   &fakeChecker{stolen: false},
		Config:    testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"check vin"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/vin"},
		"MediaContentType0": {"image/jpeg"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1HGCM82633A123456")
	assert.Contains(t, rr.Body.String(), "not reported stolen in our database")
}

func TestIncomingCheckVINStolen(t *testing.T) {
	s := handlers.SMS{
		Fetcher:   &fakeFetcher{data: []byte("img")},
		Extractor: &fakeExtractor{vin: "1HGCM82633A123456"},
		Checker:   &fakeChecker{stolen: true},
		Config:    testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"check vin"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/vin"},
		"MediaContentType0": {"image/jpeg"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "REPORTED STOLEN")
	assert.Contains(t, rr.Body.String(), "317-327-3811")
}

func TestIncomingCheckVINNoneDetected(t *testing.T) {
	s := handlers.SMS{
		Fetcher:   &fakeFetcher{data: []byte("img")},
		Extractor: &fakeExtractor{vin: ""},
		Config:    testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"check vin"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/vin"},
		"MediaContentType0": {"image/jpeg"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Could not detect a VIN in the image")
}

func TestIncomingCheckVINLookupFailureReadsAsClear(t *testing.T) {
	s := handlers.SMS{
		Fetcher:   &fakeFetcher{data: []byte("img")},
		Extractor: &fakeExtractor{vin: "1HGCM82633A123456"},
		Checker:   &fakeChecker{err: assert.AnError},
		Config:    testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"check vin"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/vin"},
		"MediaContentType0": {"image/jpeg"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "not reported stolen in our database")
}

func TestIncomingCheckVINNonImageMedia(t *testing.T) {
	s := handlers.SMS{Config: testConfig()}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":              {"+13175550123"},
		"Body":              {"check vin"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.com/media/clip"},
		"MediaContentType0": {"video/mp4"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Please send a photo of the vehicle")
}

func TestIncomingBaitCarsNearHotspot(t *testing.T) {
	baitLogs := new(mocks.BaitCarLogDatabase)
	baitLogs.On("InsertOne", mock.Anything, mock.AnythingOfType("models.BaitCarLog")).Return(nil)

	s := handlers.SMS{
		BaitLogs: baitLogs,
		Locator:  geo.NewStaticLocator(),
		Config:   testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":      {"+13175550123"},
		"Body":      {"bait cars"},
		"Latitude":  {"39.768"},
		"Longitude": {"-86.158"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bait car active near you")
	baitLogs.AssertExpectations(t)
}

func TestIncomingBaitCarsNoneNearby(t *testing.T) {
	s := handlers.SMS{
		Locator: geo.NewStaticLocator(),
		Config:  testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":      {"+13175550123"},
		"Body":      {"bait cars"},
		"Latitude":  {"39.978"},
		"Longitude": {"-86.118"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No active bait cars currently reported in your immediate area.")
}

func TestIncomingBaitCarsWithoutLocation(t *testing.T) {
	s := handlers.SMS{
		Locator: geo.NewStaticLocator(),
		Config:  testConfig(),
	}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From": {"+13175550123"},
		"Body": {"bait cars"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "enable location sharing")
}

func TestIncomingBaitCarsUsesCachedLocation(t *testing.T) {
	baitLogs := new(mocks.BaitCarLogDatabase)
	baitLogs.On("InsertOne", mock.Anything, mock.AnythingOfType("models.BaitCarLog")).Return(nil)

	locations := newFakeLocations()
	s := handlers.SMS{
		BaitLogs:  baitLogs,
		Locator:   geo.NewStaticLocator(),
		Locations: locations,
		Config:    testConfig(),
	}

	// first message shares a position next to a hotspot
	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From":      {"+13175550123"},
		"Body":      {"hello"},
		"Latitude":  {"39.768"},
		"Longitude": {"-86.158"},
	}))
	assert.Equal(t, http.StatusOK, rr.Code)

	// a later query without coordinates falls back to the cached spot
	rr = httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From": {"+13175550123"},
		"Body": {"bait cars"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bait car active near you")
}

func TestIncomingRepliesAreTwiML(t *testing.T) {
	s := handlers.SMS{Config: testConfig()}

	rr := httptest.NewRecorder()
	s.IncomingHandler(rr, smsRequest(url.Values{
		"From": {"+13175550123"},
		"Body": {"anything"},
	}))

	assert.Equal(t, "text/xml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "<Response>")
	assert.Contains(t, rr.Body.String(), "<Message>")
}
