package db

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

var DB *gorm.DB

// ConnectDatabase opens the record store. A Postgres DSN selects the
// Postgres driver; anything else is treated as a SQLite file path, the
// default for a single-node monitor.
func ConnectDatabase(dsn string) error {
	var err error

	if dsn == "" {
		dsn = "lanwatch.db"
	}

	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		DB, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		DB, err = gorm.Open(sqlite.Open(dsn), cfg)
	}

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.WiFiSample{},
		&models.PingResult{},
		&models.SensorCheck{},
		&models.Incident{},
		&models.Notification{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
