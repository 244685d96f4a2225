package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key layout: one JSON record per session keyed by token, plus an
// ID -> token indirection so Update can follow token rotation, and a
// per-user set for DeleteByUserID. TTLs track the session expiry so
// Redis evicts stale records on its own; DeleteExpired is a no-op.
const (
	redisTokenPrefix = "sess:token:"
	redisIDPrefix    = "sess:id:"
	redisUserPrefix  = "sess:user:"
)

// RedisStore is a Store implementation backed by Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a session store on top of the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// redisSession is the persisted wire form of a Session.
type redisSession struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserID       *string        `json:"user_id,omitempty"`
	Values       map[string]any `json:"values,omitempty"`
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	return s.write(ctx, sess)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, redisTokenPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session redis: get: %w", err)
	}

	var rec redisSession
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session redis: decode: %w", err)
	}

	sess := &Session{
		CreatedAt:    rec.CreatedAt,
		LastActiveAt: rec.LastActiveAt,
		ExpiresAt:    rec.ExpiresAt,
		UserID:       rec.UserID,
		Values:       rec.Values,
		ID:           rec.ID,
		Token:        rec.Token,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess, nil
}

func (s *RedisStore) Update(ctx context.Context, sess *Session) error {
	// Drop the old token record if the token rotated.
	oldToken, err := s.client.Get(ctx, redisIDPrefix+sess.ID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session redis: lookup token: %w", err)
	}
	if oldToken != "" && oldToken != sess.Token {
		if err := s.client.Del(ctx, redisTokenPrefix+oldToken).Err(); err != nil {
			return fmt.Errorf("session redis: drop rotated token: %w", err)
		}
	}
	return s.write(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := s.client.Get(ctx, redisIDPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session redis: lookup token: %w", err)
	}
	if err := s.client.Del(ctx, redisTokenPrefix+token, redisIDPrefix+id).Err(); err != nil {
		return fmt.Errorf("session redis: delete: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, redisUserPrefix+userID).Result()
	if err != nil {
		return fmt.Errorf("session redis: list user sessions: %w", err)
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, redisUserPrefix+userID).Err()
}

// DeleteExpired is a no-op for Redis: records carry a TTL matching the
// session expiry, so Redis handles eviction itself.
func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *RedisStore) write(ctx context.Context, sess *Session) error {
	rec := redisSession{
		CreatedAt:    sess.CreatedAt,
		LastActiveAt: sess.LastActiveAt,
		ExpiresAt:    sess.ExpiresAt,
		UserID:       sess.UserID,
		Values:       sess.Values,
		ID:           sess.ID,
		Token:        sess.Token,
		IP:           sess.IP,
		UserAgent:    sess.UserAgent,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session redis: encode: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisTokenPrefix+sess.Token, raw, ttl)
	pipe.Set(ctx, redisIDPrefix+sess.ID, sess.Token, ttl)
	if sess.UserID != nil && *sess.UserID != "" {
		pipe.SAdd(ctx, redisUserPrefix+*sess.UserID, sess.ID)
		pipe.Expire(ctx, redisUserPrefix+*sess.UserID, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session redis: write: %w", err)
	}
	return nil
}
