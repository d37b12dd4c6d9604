// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qrtrace/qrtrace-api/internal/config"
	"github.com/qrtrace/qrtrace-api/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.LogLevel != "silent" {
		logLevel = logger.Info
	}

	// TranslateError lets the store layer map unique-index violations to
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations")

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.QRCode{},
		&models.TrackingEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// QR code indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_qr_codes_serial_number ON qr_codes(serial_number)",
		"CREATE INDEX IF NOT EXISTS idx_qr_codes_product ON qr_codes(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_qr_codes_category ON qr_codes(product_category)",
		"CREATE INDEX IF NOT EXISTS idx_qr_codes_created_at ON qr_codes(created_at DESC)",

		// Tracking event indexes (list-by-record, newest first)
		"CREATE INDEX IF NOT EXISTS idx_tracking_events_record ON tracking_events(qr_code_id, timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_tracking_events_action ON tracking_events(action)",

		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default admin account when none exists, so a
// fresh deployment can log in and start issuing records.
func SeedInitialData(db *gorm.DB, seed config.SeedConfig) error {
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount > 0 {
		return nil
	}

	admin := &models.User{
		Username: "admin",
		Email:    seed.AdminEmail,
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusActive,
		Company:  "QRTrace",
		Permissions: pq.StringArray{
			models.PermissionQRCodeCreate,
			models.PermissionQRCodeRead,
		},
	}

	if err := admin.SetPassword(seed.AdminPassword); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.WithField("email", admin.Email).Info("Default admin user created")
	return nil
}
