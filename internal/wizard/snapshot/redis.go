package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/sitekit/internal/wizard/domain"
)

const keyPrefix = "wizard:"

type redisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore persists snapshots under wizard:<sessionID> with a TTL so
// abandoned sessions age out on their own.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Snapshot{}, ErrNotFound
		}
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+sessionID, raw, s.ttl).Err()
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}
