package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bilaluali/support-gpt/internal/models"
)

// MemoryStore keeps conversations in a process-local map. Used for tests and
// local development without a database.
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: make(map[string][]byte)}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Get returns the stored conversation, or nil if none exists.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*models.Conversation, error) {
	s.mu.Lock()
	data, ok := s.conversations[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	conv := &models.Conversation{}
	if err := json.Unmarshal(data, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetOrCreate returns the stored conversation or a fresh unpersisted one.
func (s *MemoryStore) GetOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error) {
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
func (s *MemoryStore) Put(ctx context.Context, sessionID string, conv *models.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conversations[sessionID] = data
	s.mu.Unlock()
	return nil
}
