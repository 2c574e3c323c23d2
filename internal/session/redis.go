package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"deskcalc/internal/engine"
)

// RedisStore keeps sessions in Redis as JSON values under a key prefix,
// with the TTL refreshed on every write. A session has one interactive
// owner; concurrent writers to the same session are last-write-wins.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store on an existing client.
func NewRedisStore(client *redis.Client, cfg Config) *RedisStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultConfig().Prefix
	}

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (s *RedisStore) Create(ctx context.Context) (Session, error) {
	now := time.Now()
	sess := Session{
		ID:        uuid.New().String(),
		State:     engine.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.put(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("session get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("session unmarshal: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Apply(ctx context.Context, id string, evs ...engine.Event) (engine.State, Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return engine.State{}, Session{}, err
	}

	before := sess.State
	st := before
	for _, ev := range evs {
		st = st.Apply(ev)
	}

	sess.State = st
	sess.UpdatedAt = time.Now()

	if err := s.put(ctx, sess); err != nil {
		return engine.State{}, Session{}, err
	}
	return before, sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.prefix+id).Result()
	if err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) put(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}
