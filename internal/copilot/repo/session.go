// Package repo persists conversation state between turns.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	errx "github.com/nexsupply/sourcing-core/internal/core/error"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// RedisSessionRepository stores each session's conversation state as one JSON
// value with a sliding TTL: every save and load touches the key so an active
// conversation never expires mid-dialogue.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) stateKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s:state", sessionID)
}

func (r *RedisSessionRepository) SaveState(ctx context.Context, sessionID string, state *model.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to marshal conversation state")
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	key := r.stateKey(sessionID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save conversation state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) LoadState(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	key := r.stateKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return &model.ConversationState{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation state from redis")
		return nil, errx.WrapRedis(err)
	}

	var state model.ConversationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logx.Error().Err(err).Str("sessionID", sessionID).Msg("failed to unmarshal conversation state")
		return nil, fmt.Errorf("unmarshal conversation state: %w", err)
	}

	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return nil, errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on session key")
		}
	}
	return &state, nil
}

func (r *RedisSessionRepository) ClearState(ctx context.Context, sessionID string) error {
	key := r.stateKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete conversation state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) MessageCount(ctx context.Context, sessionID string) (int, error) {
	state, err := r.LoadState(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(state.Messages), nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
