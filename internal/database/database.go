package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bambinounos/psicoeval/internal/config"
	logging "github.com/bambinounos/psicoeval/internal/logging"
	"github.com/bambinounos/psicoeval/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = gormlogger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	responsesIndex := `CREATE INDEX IF NOT EXISTS idx_projective_pending ON projective_responses (evaluation_id) WHERE reviewed = false;`
	if err := DB.Exec(responsesIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on projective responses", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}

// Migrate runs AutoMigrate for every model. Exposed separately so tests can
// apply the same schema to an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.TargetProfile{},
		&models.Test{},
		&models.Question{},
		&models.Option{},
		&models.Evaluation{},
		&models.PsychometricResponse{},
		&models.ProjectiveResponse{},
		&models.MemoryResponse{},
		&models.MatrixResponse{},
		&models.SituationalResponse{},
		&models.AttentionResponse{},
		&models.FinalResult{},
		&models.Evaluator{},
	)
}
