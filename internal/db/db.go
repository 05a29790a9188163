package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ventilia/nuclear-donor-bot/internal/models"
)

var conn *gorm.DB

// Init opens the database at path and prepares the schema. seedAdmins is
// applied only when the admins table is empty, so a redeploy never resurrects
// a removed admin.
func Init(path string, seedAdmins []int64) error {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	var err error
	conn, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.Reminder{},
		&models.Donation{},
		&models.NonAttendanceReason{},
		&models.Question{},
		&models.Admin{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Composite index that GORM doesn't auto-create from struct tags; the
	// capacity count in RegisterForEvent hits it on every registration.
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_reg_event_status ON registrations(event_id, status)")

	var count int64
	if err := conn.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		for _, id := range seedAdmins {
			conn.Where(models.Admin{ChatID: id}).FirstOrCreate(&models.Admin{ChatID: id})
		}
	}
	return nil
}

// Conn returns the shared handle. Valid after Init.
func Conn() *gorm.DB {
	return conn
}
