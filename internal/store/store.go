package store

import (
	"context"

	"github.com/bilaluali/support-gpt/internal/models"
)

// ConversationStore is keyed persistence of conversations by session id.
// All backends implement whole-record overwrite semantics: Put replaces the
// stored snapshot and refreshes UpdatedAt. There is no per-session locking
// or versioning; with two concurrent writers for one session id the later
// Put wins and silently discards the earlier turn.
type ConversationStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Get returns the stored conversation, or nil if none exists.
	Get(ctx context.Context, sessionID string) (*models.Conversation, error)

	// GetOrCreate returns the stored conversation, or a fresh empty one.
	// A fresh conversation is not persisted until the first Put.
	GetOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error)

	// Put persists the full conversation snapshot under the session id,
	// setting UpdatedAt as a side effect before the write.
	Put(ctx context.Context, sessionID string, conv *models.Conversation) error
}
