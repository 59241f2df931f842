package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bilaluali/support-gpt/internal/models"
)

// PostgresStore persists conversations in PostgreSQL, transcript and
// collected data as JSONB columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool
// and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates the conversations table if it doesn't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			session_id TEXT PRIMARY KEY,
			messages JSONB NOT NULL DEFAULT '[]',
			collected_data JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Get retrieves a conversation by session id, or nil if none exists.
func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*models.Conversation, error) {
	defer observe("postgres", "get")()

	conv := &models.Conversation{SessionID: sessionID}
	var messagesJSON, dataJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT messages, collected_data, created_at, updated_at
		FROM conversations WHERE session_id = $1
	`, sessionID).Scan(
		&messagesJSON,
		&dataJSON,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(messagesJSON, &conv.Messages); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dataJSON, &conv.CollectedData); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetOrCreate retrieves a conversation or constructs a fresh unpersisted one.
func (s *PostgresStore) GetOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error) {
	conv, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	return models.NewConversation(sessionID, time.Now().UTC()), nil
}

// Put persists the full conversation snapshot, replacing any existing row.
func (s *PostgresStore) Put(ctx context.Context, sessionID string, conv *models.Conversation) error {
	defer observe("postgres", "put")()

	conv.UpdatedAt = time.Now().UTC()

	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return err
	}
	dataJSON, err := json.Marshal(conv.CollectedData)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO conversations (session_id, messages, collected_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			messages = EXCLUDED.messages,
			collected_data = EXCLUDED.collected_data,
			updated_at = EXCLUDED.updated_at
	`, sessionID, messagesJSON, dataJSON, conv.CreatedAt, conv.UpdatedAt)
	return err
}
