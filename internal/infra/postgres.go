package infra

import (
	"fmt"
	"time"

	"aitravel/internal/config"
	"aitravel/internal/models/db_models"
	"aitravel/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitPostgresql opens the connection pool. It does not migrate.
func InitPostgresql(cfg *config.Config) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.User{},
		&db_models.Trip{},
		&db_models.TripDay{},
		&db_models.DayActivity{},
		&db_models.PaymentMethod{},
		&db_models.Booking{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Errorw("get database instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Log.Errorw("close database connection", "error", err)
	} else {
		logger.Log.Info("PostgreSQL database connection closed")
	}
}
