package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/indysafe/safety-bot-api/api/handlers"
	"github.com/indysafe/safety-bot-api/api/scheduler"
	"github.com/indysafe/safety-bot-api/config"
	"github.com/indysafe/safety-bot-api/databases"
)

func main() {
	// a missing .env is fine in production where config comes from
	// real environment variables
	_ = godotenv.Load()

	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database and router
		log.Fatal(err)
	}

	sweeper := &handlers.Cleanup{DB: databases.NewReportDatabase(a.DBHelper()), Config: a.Config}
	sched := scheduler.NewScheduler(sweeper)
	sched.Start()
	defer sched.Stop()

	zap.S().Infow("safety-bot-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
