package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bilaluali/support-gpt/internal/metrics"
	"github.com/bilaluali/support-gpt/internal/models"
)

// SQLiteStore persists conversations in a local SQLite database. Transcript
// and collected data are stored as JSON columns, one row per session id.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/supportgpt.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/supportgpt.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates the conversations table if it doesn't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		session_id TEXT PRIMARY KEY,
		messages TEXT NOT NULL DEFAULT '[]',
		collected_data TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_updated_at ON conversations(updated_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get retrieves a conversation by session id, or nil if none exists.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (*models.Conversation, error) {
	defer observe("sqlite", "get")()

	conv := &models.Conversation{SessionID: sessionID}
	var messagesJSON, dataJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT messages, collected_data, created_at, updated_at
		FROM conversations WHERE session_id = ?
	`, sessionID).Scan(
		&messagesJSON,
		&dataJSON,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(messagesJSON), &conv.Messages); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dataJSON), &conv.CollectedData); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetOrCreate retrieves a conversation or constructs a fresh unpersisted one.
func (s *SQLiteStore) GetOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error) {
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
func (s *SQLiteStore) Put(ctx context.Context, sessionID string, conv *models.Conversation) error {
	defer observe("sqlite", "put")()

	conv.UpdatedAt = time.Now().UTC()

	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return err
	}
	dataJSON, err := json.Marshal(conv.CollectedData)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, messages, collected_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			messages = excluded.messages,
			collected_data = excluded.collected_data,
			updated_at = excluded.updated_at
	`, sessionID, string(messagesJSON), string(dataJSON), conv.CreatedAt, conv.UpdatedAt)
	return err
}

// observe records store operation latency.
func observe(backend, operation string) func() {
	start := time.Now()
	return func() {
		metrics.StoreLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
	}
}
