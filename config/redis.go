// volvera/config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// ConnectRedis подключает Redis. Без адреса или при ошибке ping RDB
// остаётся nil - кэш пользователей отключается, а лимитер загрузок
// переходит на локальное хранилище.
func ConnectRedis(cfg *AppConfig) {
	if cfg.RedisAddr == "" {
		slog.Warn("VOLVERA_REDIS_ADDR is not set, caching and shared rate limiting are disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// Проверяем соединение
	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("Could not connect to Redis", "error", err)
		RDB = nil
		return
	}

	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
}
