package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Ctx   = context.Background()
	Redis *redis.Client
)

func InitRedis() {
	db := GetEnvInt("REDIS_DB", 0)

	Redis = redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(Ctx, 2*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		zap.L().Fatal("Redis tidak nyambung", zap.Error(err))
	}

	zap.L().Info("Redis connected", zap.Int("db", db))
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
