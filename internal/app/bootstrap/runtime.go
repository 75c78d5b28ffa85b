package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/noshow-decision-demo/internal/config"
	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/overbooking"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/internal/reminder"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err, "addr", cfg.RedisAddr)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPendingTracker returns the Redis tracker when a client is available,
// otherwise an in-process one.
func BuildPendingTracker(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) pending.Tracker {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient == nil {
		logger.Info("pending tracker: memory")
		return pending.NewMemoryTracker()
	}
	var ttl time.Duration
	if cfg != nil {
		ttl = cfg.PendingTTL
	}
	logger.Info("pending tracker: redis", "ttl", ttl.String())
	return pending.NewRedisTracker(redisClient, ttl)
}

// BuildOverbookingPolicy picks the recommender for cfg.OverbookingMode.
func BuildOverbookingPolicy(cfg *appconfig.Config, src decision.Source) overbooking.Policy {
	if cfg != nil && cfg.OverbookingMode == appconfig.OverbookingModeFixed {
		return overbooking.FixedPolicy{}
	}
	return overbooking.NewRandomPolicy(src)
}

// BuildReminderPolicy applies the configured CALL threshold.
func BuildReminderPolicy(cfg *appconfig.Config) reminder.Policy {
	policy := reminder.DefaultPolicy()
	if cfg != nil {
		policy.CallThreshold = cfg.ReminderCallThreshold
	}
	return policy
}

// BuildFeedConfig maps the feed settings; zero durations mean no wait.
func BuildFeedConfig(cfg *appconfig.Config) reminder.FeedConfig {
	if cfg == nil {
		return reminder.DefaultFeedConfig()
	}
	return reminder.FeedConfig{
		Size:       cfg.FeedSize,
		StartDelay: decision.FixedDelay(cfg.FeedStartDelay),
		Interval:   decision.FixedDelay(cfg.FeedInterval),
	}
}
