package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// NewCache connects the optional redis instance. A nil client is a valid
// result for callers; they degrade to no-ops.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return nil, err
	}
	return client, nil
}
