package main

import (
	"github.com/umageminite/habit-tracker-app/config"
	"github.com/umageminite/habit-tracker-app/habits"
	"github.com/umageminite/habit-tracker-app/models"
	"github.com/umageminite/habit-tracker-app/routes"
	"github.com/umageminite/habit-tracker-app/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db, err := config.InitDatabase(&models.User{}, &models.Habit{})
	if err != nil {
		utils.Sugar.Fatalf("database init: %v", err)
	}

	store := habits.NewGormStore(db)
	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
