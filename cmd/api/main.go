package main

import (
	"os"
	"os/signal"
	"syscall"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/jobs"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/payments"
	"github.com/anjiri1684/skill_tutor/routes"
	"github.com/anjiri1684/skill_tutor/services"
)

var version = "dev"

func main() {
	logger.Init(config.Config("APP_ENV"))
	logger.InitReporting(config.Config("ROLLBAR_TOKEN"), config.Config("APP_ENV"), version)
	defer logger.Sync()

	database.ConnectDB()
	if err := database.Migrate(); err != nil {
		logger.Log.Fatalw("Failed to migrate database", "error", err)
	}
	database.SeedAdmin()
	notifications.InitEmailService()

	if config.Config("EXCHANGE_RATE_API_KEY") != "" {
		go func() {
			if _, err := services.FetchRates(); err != nil {
				logger.Log.Warnw("Initial exchange rate fetch failed", "error", err)
			}
		}()
	}
	if config.Config("KCB_API_KEY") != "" {
		go func() {
			if _, err := payments.GetKcbAccessToken(); err != nil {
				logger.Log.Warnw("Initial KCB token fetch failed", "error", err)
			}
		}()
	}

	scheduler, err := jobs.Start()
	if err != nil {
		logger.Log.Fatalw("Failed to schedule jobs", "error", err)
	}

	app := routes.NewApp()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down")
		<-scheduler.Stop().Done()
		if err := app.Shutdown(); err != nil {
			logger.Log.Errorw("Server shutdown failed", "error", err)
		}
	}()

	port := config.Config("PORT")
	logger.Log.Infow("Server starting", "port", port, "environment", config.Config("APP_ENV"))
	if err := app.Listen(":" + port); err != nil {
		logger.Log.Fatalw("Server failed to start", "error", err)
	}
}
