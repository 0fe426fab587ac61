package main

import (
	"time"

	"go.uber.org/zap"

	"aicoach-go/internal/config"
	"aicoach-go/internal/database"
	"aicoach-go/internal/feedback"
	"aicoach-go/internal/genai"
	logging "aicoach-go/internal/logging"
	"aicoach-go/internal/models"
	"aicoach-go/internal/questions"
	"aicoach-go/internal/repository"
	"aicoach-go/internal/router"
	"aicoach-go/internal/session"
)

func main() {
	// Initialize Logger
	log, err := logging.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	db, err := database.Init(log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Load the fallback question bank at startup
	bank, err := models.LoadQuestionBank(config.Conf.Interview.QuestionBankPath)
	if err != nil {
		log.Warn("Question bank unavailable, generation has no fallback", zap.Error(err))
		bank = &models.QuestionBank{}
	}

	// Construct the generative-text client and the services built on it
	geminiConf := config.Conf.Gemini
	aiClient, err := genai.NewClient(log, geminiConf.APIKey, geminiConf.Models,
		time.Duration(geminiConf.TimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatal("Failed to construct Gemini client", zap.Error(err))
	}

	generator := questions.NewGenerator(log, aiClient, bank)

	feedbackRepo := repository.NewFeedbackRepo(db, log)
	pipeline := feedback.NewPipeline(log, aiClient, feedbackRepo)

	publishInterval := time.Duration(config.Conf.Interview.MetricsPublishIntervalMS) * time.Millisecond
	manager := session.NewManager(log, pipeline, publishInterval)

	// Setup router and start the Gin server
	r := router.Setup(log, db, generator, manager)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
