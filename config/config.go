// volvera/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig - все настройки приложения. Значения читаются из переменных
// окружения с префиксом VOLVERA (например VOLVERA_DB_DSN).
type AppConfig struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	DBDriver string `envconfig:"DB_DRIVER" default:"postgres"`
	DBDSN    string `envconfig:"DB_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	JwtSecret string        `envconfig:"JWT_SECRET"`
	JwtTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	UploadDir    string        `envconfig:"UPLOAD_DIR" default:"./storage/uploads"`
	UploadLimit  int64         `envconfig:"UPLOAD_LIMIT" default:"10"`
	UploadWindow time.Duration `envconfig:"UPLOAD_WINDOW" default:"1h"`

	// Шрифт для fa/ps. Путь к файлу имеет приоритет над URL.
	RTLFontPath string `envconfig:"RTL_FONT_PATH"`
	RTLFontURL  string `envconfig:"RTL_FONT_URL" default:"https://github.com/rastikerdar/vazirmatn/raw/master/fonts/ttf/Vazirmatn-Regular.ttf"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
}

// Cfg - загруженная конфигурация. Заполняется в Load.
var Cfg = &AppConfig{}

// JwtKey - ключ подписи HMAC для JWT.
var JwtKey []byte

// Validate проверяет то, без чего сервер не стартует.
func (c *AppConfig) Validate() error {
	if c.JwtSecret == "" {
		return fmt.Errorf("VOLVERA_JWT_SECRET is not set")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("VOLVERA_DB_DSN is not set")
	}
	return nil
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	var cfg AppConfig
	if err := envconfig.Process("volvera", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if cfg.UploadLimit <= 0 {
		return nil, fmt.Errorf("invalid upload limit: %d", cfg.UploadLimit)
	}

	Cfg = &cfg
	JwtKey = []byte(cfg.JwtSecret)
	return Cfg, nil
}
