// volvera/config/database.go

package config

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB открывает соединение с БД по настройкам из AppConfig.
// postgres - основной драйвер, sqlite - для локальной разработки.
func ConnectDB(cfg *AppConfig) error {
	if cfg.DBDSN == "" {
		return fmt.Errorf("VOLVERA_DB_DSN is not set")
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("Database connection failed", "error", err, "driver", cfg.DBDriver)
		return err
	}

	DB = db
	slog.Info("Connected to database", "driver", cfg.DBDriver)
	return nil
}
