package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bilaluali/support-gpt/internal/models"
)

// RedisStore persists each conversation as one JSON value. Conversations
// have no expiry; they live under their session id indefinitely.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying connection for the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() {
	s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// conversationKey returns the key for a session's conversation.
func conversationKey(sessionID string) string {
	return "conversation:" + sessionID
}

// Get retrieves a conversation by session id, or nil if none exists.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.Conversation, error) {
	defer observe("redis", "get")()

	data, err := s.client.Get(ctx, conversationKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	conv := &models.Conversation{}
	if err := json.Unmarshal(data, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetOrCreate retrieves a conversation or constructs a fresh unpersisted one.
func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error) {
	conv, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	return models.NewConversation(sessionID, time.Now().UTC()), nil
}

// Put persists the full conversation snapshot.
func (s *RedisStore) Put(ctx context.Context, sessionID string, conv *models.Conversation) error {
	defer observe("redis", "put")()

	conv.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, conversationKey(sessionID), data, 0).Err()
}
