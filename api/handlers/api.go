package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/indysafe/safety-bot-api/api"
	"github.com/indysafe/safety-bot-api/cache"
	"github.com/indysafe/safety-bot-api/config"
	"github.com/indysafe/safety-bot-api/databases"
	"github.com/indysafe/safety-bot-api/geo"
	"github.com/indysafe/safety-bot-api/images"
	"github.com/indysafe/safety-bot-api/models"
	"github.com/indysafe/safety-bot-api/vehicles"
	"github.com/indysafe/safety-bot-api/vin"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	fetcher := &images.Fetcher{Client: &http.Client{Timeout: 30 * time.Second}}

	var blurrer images.FaceBlurrer
	if b, err := images.NewPigoBlurrer(a.Config.FaceCascadePath); err != nil {
		zap.S().Warnw("face cascade unavailable, images will be stored unblurred",
			"path", a.Config.FaceCascadePath, "error", err)
	} else {
		blurrer = b
	}

	var locations cache.LocationCache
	if lc, err := cache.NewRedisLocationCache(a.Config.RedisURL); err != nil {
		zap.S().Warnw("redis unavailable, location fallback disabled", "error", err)
	} else {
		locations = lc
	}

	sms := SMS{
		Reports:  databases.NewReportDatabase(a.dbHelper),
		BaitLogs: databases.NewBaitCarLogDatabase(a.dbHelper),
		Fetcher:  fetcher,
		Extractor: &vin.Extractor{
			Engine: vin.TesseractEngine{},
		},
		Sanitizer: &images.Sanitizer{
			Fetcher:   fetcher,
			Blurrer:   blurrer,
			UploadDir: a.Config.UploadDir,
		},
		Locator:   geo.NewStaticLocator(),
		Checker:   vehicles.NewMockChecker(time.Now().UnixNano()),
		Locations: locations,
		Caller:    NewTwilioCaller(a.Config.TwilioAccountSID, a.Config.TwilioAuthToken),
		Config:    a.Config,
	}
	voice := Voice{Config: a.Config}
	cleanup := Cleanup{DB: databases.NewReportDatabase(a.dbHelper), Config: a.Config}

	validator := api.NewTwilioValidator(a.Config.TwilioAuthToken, a.Config.BaseURL)
	webhookTimeout := api.TimeoutMiddleware(60 * time.Second)

	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.Handle("/sms", webhookTimeout(validator.Middleware(http.HandlerFunc(sms.IncomingHandler)))).Methods("POST")
	r.Handle("/voice/emergency", validator.Middleware(http.HandlerFunc(voice.EmergencyCallHandler))).Methods("POST")
	r.Handle("/voice/family", validator.Middleware(http.HandlerFunc(voice.FamilyCallHandler))).Methods("POST")

	r.HandleFunc("/cleanup", cleanup.CleanupHandler).Methods("GET")
	r.HandleFunc("/metrics", a.metricsHandler).Methods("GET")

	r.HandleFunc("/", indexHandler).Methods("GET")

	// stored report images and call audio live under static/
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./static/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("safety-bot-api has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// DBHelper exposes the live database connection so main can wire
// background jobs against the same pool.
func (a *App) DBHelper() databases.DatabaseHelper {
	return a.dbHelper
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !adminKeyMatches(r.URL.Query().Get("key"), a.Config.AdminKey) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "unauthorized"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	b, _ := json.Marshal(map[string]interface{}{
		"summary": api.GetMetrics().GetSummary(),
		"routes":  api.GetMetrics().GetRouteMetrics(),
	})
	_, _ = w.Write(b)
}

const indexPage = `<html>
<head>
    <title>Indianapolis Public Safety Bot</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
        h1 { color: #003366; }
        .commands { background: #f5f5f5; padding: 20px; border-radius: 5px; }
    </style>
</head>
<body>
    <h1>Indianapolis Public Safety SMS Chatbot</h1>
    <p>This is the server for the Indianapolis Public Safety SMS Chatbot. Text one of the following commands to the Twilio phone number:</p>

    <div class="commands">
        <p><strong>report [details]</strong> + photo: Report suspicious activity</p>
        <p><strong>check vin</strong> + photo: Check if a vehicle is stolen</p>
        <p><strong>bait cars</strong>: Check for nearby bait cars</p>
        <p><strong>RED</strong>: Emergency help (triggers call)</p>
        <p><strong>call mom</strong>: Fake family emergency call</p>
    </div>

    <p>Server status: <span style="color: green; font-weight: bold;">ONLINE</span></p>
</body>
</html>`

func indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, indexPage)
}
