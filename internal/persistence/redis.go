package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/config"
)

// NewRedis builds the client behind the Redis summary store. REDIS_ADDR may
// list several comma separated addresses for a cluster. An unreachable
// server is logged, not fatal; readiness reports it until it comes back.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) redis.UniversalClient {
	client := redis.NewUniversalClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Strings("addrs", redisOptions(cfg).Addrs), zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}
	return client
}

func redisOptions(cfg config.RedisConfig) *redis.UniversalOptions {
	var addrs []string
	for _, a := range strings.Split(cfg.Addr, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return &redis.UniversalOptions{
		Addrs:        addrs,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
