package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"drukhotel/models"
)

const (
	sessionKeyPrefix = "session:"
	deviceIDKey      = "device:id"
)

// TokenStore persists the opaque session token blob across app restarts.
type TokenStore interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// RedisTokenStore keeps the session blob in the scoped key-value store under a
// per-install device key, so one app instance holds at most one session.
type RedisTokenStore struct {
	Client *redis.Client
	key    string
}

// NewRedisTokenStore builds a store scoped to this install's device ID,
// minting and persisting the ID on first use.
func NewRedisTokenStore(ctx context.Context, client *redis.Client) (*RedisTokenStore, error) {
	deviceID, err := client.Get(ctx, deviceIDKey).Result()
	if err == redis.Nil {
		deviceID = uuid.NewString()
		if err := client.Set(ctx, deviceIDKey, deviceID, 0).Err(); err != nil {
			return nil, fmt.Errorf("failed to persist device id: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load device id: %w", err)
	}
	return &RedisTokenStore{Client: client, key: sessionKeyPrefix + deviceID}, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.Client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or nil when none is stored.
func (s *RedisTokenStore) Load(ctx context.Context) (*models.Session, error) {
	data, err := s.Client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.Client.Del(ctx, s.key).Err()
}
