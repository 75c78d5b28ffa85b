package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPendingTTL = 30 * time.Second

// RedisTracker shares pending flags between API instances. Flags expire after
// ttl so a crashed instance cannot leave a trigger disabled forever.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTracker creates a tracker on client. A non-positive ttl uses 30s.
func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	return &RedisTracker{client: client, ttl: ttl}
}

func (t *RedisTracker) key(sessionID string, c Component) string {
	return fmt.Sprintf("decision:pending:%s:%s", sessionID, c)
}

func (t *RedisTracker) MarkPending(ctx context.Context, sessionID string, c Component) error {
	if err := t.client.Set(ctx, t.key(sessionID, c), string(StatePending), t.ttl).Err(); err != nil {
		return fmt.Errorf("pending: mark pending: %w", err)
	}
	return nil
}

func (t *RedisTracker) MarkIdle(ctx context.Context, sessionID string, c Component) error {
	if err := t.client.Del(ctx, t.key(sessionID, c)).Err(); err != nil {
		return fmt.Errorf("pending: mark idle: %w", err)
	}
	return nil
}

func (t *RedisTracker) Status(ctx context.Context, sessionID string) (map[Component]State, error) {
	keys := make([]string, len(Components))
	for i, c := range Components {
		keys[i] = t.key(sessionID, c)
	}
	vals, err := t.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("pending: status: %w", err)
	}
	out := idleStatus()
	for i, v := range vals {
		if v != nil {
			out[Components[i]] = StatePending
		}
	}
	return out, nil
}
