package main

import (
	"os"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
)

func main() {
	logger.Init(config.Config("APP_ENV"))
	defer logger.Sync()

	database.ConnectDB()
	if err := database.Migrate(); err != nil {
		logger.Log.Fatalw("Failed to migrate database", "error", err)
	}

	cli := commandLine{db: database.DB}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Log.Errorw("Command failed", "error", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}
