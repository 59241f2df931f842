package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bilaluali/support-gpt/internal/models"
)

func intPtr(n int64) *int64 { return &n }

// openBackends returns every backend that can run without external services.
func openBackends(t *testing.T) map[string]ConversationStore {
	t.Helper()

	sqlite, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(sqlite.Close)

	return map[string]ConversationStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestGetAbsent(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			conv, err := s.Get(context.Background(), "missing")
			require.NoError(t, err)
			require.Nil(t, conv)
		})
	}
}

func TestGetOrCreateDoesNotPersist(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			conv, err := s.GetOrCreate(context.Background(), "fresh")
			require.NoError(t, err)
			require.Equal(t, "fresh", conv.SessionID)
			require.Empty(t, conv.Messages)
			require.True(t, conv.CollectedData.IsEmpty())
			require.Equal(t, conv.CreatedAt, conv.UpdatedAt)

			// Nothing reaches the store until the first Put
			stored, err := s.Get(context.Background(), "fresh")
			require.NoError(t, err)
			require.Nil(t, stored)
		})
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			before := time.Now().UTC()

			conv := models.NewConversation("session-1", before)
			conv.Append(
				models.Message{Role: models.RoleUser, Content: "my order is 42"},
				models.Message{Role: models.RoleAssistant, Content: "noted"},
			)
			conv.CollectedData = models.CollectedData{OrderNumber: intPtr(42)}

			require.NoError(t, s.Put(context.Background(), "session-1", conv))

			got, err := s.Get(context.Background(), "session-1")
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, conv.Messages, got.Messages)
			require.Equal(t, conv.CollectedData, got.CollectedData)
			require.WithinDuration(t, conv.CreatedAt, got.CreatedAt, time.Second)
			require.False(t, got.UpdatedAt.Before(before))
		})
	}
}

func TestPutRefreshesUpdatedAt(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			conv := models.NewConversation("session-1", time.Now().UTC().Add(-time.Hour))
			stale := conv.UpdatedAt

			require.NoError(t, s.Put(context.Background(), "session-1", conv))
			require.True(t, conv.UpdatedAt.After(stale))
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			first := models.NewConversation("session-1", time.Now().UTC())
			first.Append(models.Message{Role: models.RoleUser, Content: "one"})
			require.NoError(t, s.Put(context.Background(), "session-1", first))

			// Whole-record overwrite: the later Put wins unconditionally
			second := models.NewConversation("session-1", first.CreatedAt)
			second.Append(models.Message{Role: models.RoleUser, Content: "two"})
			require.NoError(t, s.Put(context.Background(), "session-1", second))

			got, err := s.Get(context.Background(), "session-1")
			require.NoError(t, err)
			require.Len(t, got.Messages, 1)
			require.Equal(t, "two", got.Messages[0].Content)
		})
	}
}

func TestPing(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Ping(context.Background()))
		})
	}
}
