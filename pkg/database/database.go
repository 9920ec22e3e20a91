package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sapvaishnav/chatbot-admin/internal/model"
	"github.com/sapvaishnav/chatbot-admin/pkg/config"
)

var DB *gorm.DB

// InitDB connects to PostgreSQL, configures the connection pool and migrates
// the portal schema. TranslateError is on so unique-constraint violations
// surface as gorm.ErrDuplicatedKey instead of driver-specific errors.
func InitDB(cfg *config.Config) error {
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.DB.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	return nil
}

// Migrate creates or updates the chatbot_* tables, including the partial
// unique indexes that enforce natural keys among live rows only.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Tenant{},
		&model.LoginUser{},
		&model.BotConfiguration{},
		&model.Lead{},
		&model.Conversation{},
		&model.Document{},
		&model.URL{},
		&model.DatabaseConnection{},
		&model.TrainingConfig{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
