// README: Read-through Redis cache in front of the Postgres context store.
package travelctx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tripdesk/internal/types"
)

const contextKeyPrefix = "travelctx:"

// CachedStore serves ContextState reads from Redis when possible and writes
// through to the inner store. A stale cache self-heals via TTL; the Postgres
// row stays the source of truth.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

func (s *CachedStore) Get(ctx context.Context, conversationID string) (*types.ContextState, error) {
	key := contextKeyPrefix + conversationID

	val, err := s.client.Get(ctx, key).Result()
	if err == nil {
		var state types.ContextState
		if jsonErr := json.Unmarshal([]byte(val), &state); jsonErr == nil {
			return &state, nil
		}
		// Corrupt cache entry: fall through to the inner store.
	} else if err != redis.Nil {
		// Redis being down must not break the conversation.
		return s.inner.Get(ctx, conversationID)
	}

	state, err := s.inner.Get(ctx, conversationID)
	if err != nil || state == nil {
		return state, err
	}
	if raw, jsonErr := json.Marshal(state); jsonErr == nil {
		_ = s.client.Set(ctx, key, raw, s.ttl).Err()
	}
	return state, nil
}

func (s *CachedStore) Save(ctx context.Context, state *types.ContextState) error {
	if err := s.inner.Save(ctx, state); err != nil {
		return err
	}
	if raw, err := json.Marshal(state); err == nil {
		_ = s.client.Set(ctx, contextKeyPrefix+state.ConversationID, raw, s.ttl).Err()
	}
	return nil
}
