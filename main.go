package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/config"
	"github.com/bambinounos/psicoeval/internal/database"
	logger "github.com/bambinounos/psicoeval/internal/logging"
	"github.com/bambinounos/psicoeval/internal/monitoring"
	"github.com/bambinounos/psicoeval/internal/router"
	"github.com/bambinounos/psicoeval/internal/seed"
	"github.com/bambinounos/psicoeval/internal/services"
	"github.com/bambinounos/psicoeval/internal/session"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(logger.DefaultOptions("."))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Seed the question bank on first run
	if err := seed.IfEmpty(database.DB, config.Conf.Bank.Path, log); err != nil {
		log.Fatal("Failed to seed question bank", zap.Error(err))
	}

	monitoring.Init()

	// Background expiration sweeper
	sweeper := services.NewSweeper(log, time.Duration(config.Conf.Evaluation.SweepIntervalMins)*time.Minute)
	sweeper.Start()
	defer sweeper.Stop()

	sessionService := session.New(log)
	grader := services.NewOpenAIGrader(config.Conf.AI, log)
	email := services.NewEmailService(log, config.Conf.Server.PublicBaseURL)

	// Setup router, passing the logger to it
	r := router.Setup(log, sessionService, grader, email)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
