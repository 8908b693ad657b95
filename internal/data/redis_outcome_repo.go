package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/seyren-notify/internal/core"
	"github.com/target/seyren-notify/internal/observability/notify"
)

const (
	outcomeKeyPrefix = "seyren:notify:outcome:"
	historyKeyPrefix = "seyren:notify:outcomes:"

	// HistoryLimit caps the per-check outcome list.
	HistoryLimit = 50
	// DefaultOutcomeTTL applies when the configured TTL is not positive.
	DefaultOutcomeTTL = 24 * time.Hour
)

// RedisOutcomeRepo implements core.OutcomeRecorder using Redis.
type RedisOutcomeRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ core.OutcomeRecorder = (*RedisOutcomeRepo)(nil)

// NewRedisOutcomeRepo creates a RedisOutcomeRepo with the given client and record TTL.
func NewRedisOutcomeRepo(client redis.UniversalClient, ttl time.Duration) *RedisOutcomeRepo {
	if ttl <= 0 {
		ttl = DefaultOutcomeTTL
	}
	return &RedisOutcomeRepo{client: client, ttl: ttl}
}

// Record stores the result as the latest outcome of its subscription and pushes it
// onto the capped history of its check.
func (r *RedisOutcomeRepo) Record(ctx context.Context, res *notify.Result) error {
	if res == nil || res.SubscriptionID == "" {
		return errors.New("subscription id cannot be empty")
	}

	payload, err := json.Marshal(core.NewOutcomeRecord(res))
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, outcomeKeyPrefix+res.SubscriptionID, payload, r.ttl)
	if res.CheckID != "" {
		historyKey := historyKeyPrefix + res.CheckID
		pipe.LPush(ctx, historyKey, payload)
		pipe.LTrim(ctx, historyKey, 0, HistoryLimit-1)
		pipe.Expire(ctx, historyKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record outcome: %w", err)
	}
	return nil
}

// Last returns the most recent outcome for a subscription, or nil when none is stored.
func (r *RedisOutcomeRepo) Last(ctx context.Context, subscriptionID string) (*core.OutcomeRecord, error) {
	if subscriptionID == "" {
		return nil, errors.New("subscription id cannot be empty")
	}

	raw, err := r.client.Get(ctx, outcomeKeyPrefix+subscriptionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // No outcome recorded
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec core.OutcomeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal outcome: %w", err)
	}
	return &rec, nil
}

// Recent returns up to limit outcomes for a check, newest first.
func (r *RedisOutcomeRepo) Recent(ctx context.Context, checkID string, limit int) ([]core.OutcomeRecord, error) {
	if checkID == "" {
		return nil, errors.New("check id cannot be empty")
	}
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	items, err := r.client.LRange(ctx, historyKeyPrefix+checkID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	out := make([]core.OutcomeRecord, 0, len(items))
	for _, item := range items {
		var rec core.OutcomeRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal outcome: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
