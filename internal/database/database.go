package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mapbrew/brewfinder/internal/config"
	"github.com/mapbrew/brewfinder/internal/models"
	applogger "github.com/mapbrew/brewfinder/pkg/logger"
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	log := applogger.GetLogger("database")

	logLevel := logger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Warnw("register metrics plugin", "error", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return &DB{db}, nil
}

// Migrate runs AutoMigrate for all models
func Migrate(db *DB) error {
	return db.AutoMigrate(
		// Identity domain
		&models.User{},
		&models.CreditAccount{},

		// Place domain
		&models.SearchCache{},
		&models.Favorite{},
		&models.FavoriteSlots{},
		&models.RemovedFavorite{},

		// App config domain
		&models.AdConfig{},
		&models.AppVersion{},
	)
}
