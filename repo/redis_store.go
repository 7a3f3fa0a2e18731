package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kasionely/korner-integrations-service/model"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "brief_state:"

// RedisStore keeps brief sessions as JSON values with a Redis expiry.
// Conditional writes use WATCH/MULTI on the session key.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromURL connects to the Redis server at url and verifies it responds.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (r *RedisStore) key(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) read(ctx context.Context, c getter, key string) (*model.Session, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading brief session: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("error decoding brief session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (*model.Session, error) {
	s, err := r.read(ctx, r.client, r.key(userID))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, model.ErrNoActiveSession
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, userID int64, s *model.Session, ttl time.Duration) error {
	key := r.key(userID)
	var version int64

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}
		version, err = nextVersion(stored, s)
		if err != nil {
			return err
		}

		next := s.Clone()
		next.Version = version
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("error encoding brief session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return err
	}

	s.Version = version
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID int64, version int64) error {
	key := r.key(userID)
	if version == model.AnyVersion {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("error deleting brief session: %w", err)
		}
		return nil
	}

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := checkDelete(stored, version); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	return err
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
