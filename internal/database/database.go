package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aicoach-go/internal/config"
	logging "aicoach-go/internal/logging"
	"aicoach-go/internal/models"
)

// Init opens the Postgres connection and runs migrations. The returned
// handle is injected into the repositories rather than kept as package
// state.
func Init(log *zap.Logger) (*gorm.DB, error) {
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	gormLogger := logging.NewGormZapLogger(log)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")

	if err := runMigrations(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func runMigrations(db *gorm.DB, log *zap.Logger) error {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create composite indexes, so those are handled separately.
	err := db.AutoMigrate(
		&models.InterviewSession{},
		&models.VoiceFeedbackRecord{},
		&models.BodyLanguageFeedbackRecord{},
		&models.CombinedFeedbackRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	feedbackIndex := `CREATE INDEX IF NOT EXISTS idx_feedback_lookup ON combined_feedback_records (interview_id, created_at DESC);`
	if err := db.Exec(feedbackIndex).Error; err != nil {
		return fmt.Errorf("failed to create feedback lookup index: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
