package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// statsKey is the single hash holding per-platform download counters.
const statsKey = "tele_bot:downloads"

// IStatsCache records per-platform relay counters. It is written after a
// successful relay and read only by the admin API; the relay path never
// consults it.
type IStatsCache interface {
	RecordDownload(ctx context.Context, platform string) error
	TotalsByPlatform(ctx context.Context) (map[string]int64, error)
}

type StatsCache struct {
	RedisClient *redis.Client
}

func NewStatsCache(redisClient *redis.Client) IStatsCache {
	return &StatsCache{RedisClient: redisClient}
}

func (s *StatsCache) RecordDownload(ctx context.Context, platform string) error {
	if s.RedisClient == nil {
		return nil
	}
	if err := s.RedisClient.HIncrBy(ctx, statsKey, platform, 1).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while incrementing download counter")
		return err
	}
	return nil
}

func (s *StatsCache) TotalsByPlatform(ctx context.Context) (map[string]int64, error) {
	totals := map[string]int64{}
	if s.RedisClient == nil {
		return totals, nil
	}
	raw, err := s.RedisClient.HGetAll(ctx, statsKey).Result()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while reading download counters")
		return nil, err
	}
	for platform, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		totals[platform] = n
	}
	return totals, nil
}
