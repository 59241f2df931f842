package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bilaluali/support-gpt/internal/llm"
	"github.com/bilaluali/support-gpt/internal/metrics"
	"github.com/bilaluali/support-gpt/internal/models"
	"github.com/bilaluali/support-gpt/internal/store"
)

var (
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrEmptyTransactionID   = errors.New("transaction ID cannot be empty")
	ErrOffensiveContent     = errors.New("message contains offensive content")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Service runs the per-turn chat flow: load conversation, complete, parse,
// merge, persist. It owns no transport concerns; handlers map its sentinel
// errors to HTTP statuses.
type Service struct {
	store  store.ConversationStore
	client llm.Client
	logger zerolog.Logger
	newID  func() string
}

// NewService creates a chat service over the given store and LLM client.
func NewService(st store.ConversationStore, client llm.Client, logger zerolog.Logger) *Service {
	return &Service{
		store:  st,
		client: client,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// TurnResult is the outcome of one successful chat turn.
type TurnResult struct {
	TransactionID string
	Reply         string
	CollectedData models.CollectedData
}

// SummaryResult is the outcome of a summary request.
type SummaryResult struct {
	Summary       string
	CollectedData models.CollectedData
}

// Chat runs one conversation turn. A turn either fully succeeds (transcript
// and collected data persisted, reply returned) or fully fails with no
// partial persistence.
func (s *Service) Chat(ctx context.Context, transactionID, userMessage string) (*TurnResult, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, ErrEmptyMessage
	}

	flagged, err := s.client.IsOffensive(ctx, userMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to moderate conversation: %w", err)
	}
	if flagged {
		metrics.ModerationFlagged.Inc()
		return nil, ErrOffensiveContent
	}

	if transactionID == "" {
		transactionID = s.newID()
	}
	logger := s.logger.With().Str("transaction_id", transactionID).Logger()

	conv, err := s.store.GetOrCreate(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	prompt := make([]llm.Message, 0, len(conv.Messages)+2)
	prompt = append(prompt, llm.Message{Role: string(models.RoleSystem), Content: chatSystemPrompt})
	for _, m := range conv.Messages {
		prompt = append(prompt, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	prompt = append(prompt, llm.Message{Role: string(models.RoleUser), Content: userMessage})

	completion, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	parsed := ParseResponse(logger, completion)
	conv.CollectedData = conv.CollectedData.Merge(parsed.CollectedData)
	conv.Append(
		models.Message{Role: models.RoleUser, Content: userMessage},
		models.Message{Role: models.RoleAssistant, Content: parsed.Reply},
	)

	if err := s.store.Put(ctx, transactionID, conv); err != nil {
		return nil, fmt.Errorf("failed to persist conversation: %w", err)
	}

	logger.Info().
		Int("messages", len(conv.Messages)).
		Bool("has_data", !conv.CollectedData.IsEmpty()).
		Msg("chat turn completed")
	metrics.ChatTurnsTotal.Inc()

	return &TurnResult{
		TransactionID: transactionID,
		Reply:         parsed.Reply,
		CollectedData: conv.CollectedData,
	}, nil
}

// Summarize generates a summary of an existing conversation. It requires the
// conversation to exist already and performs no persistence.
func (s *Service) Summarize(ctx context.Context, transactionID string) (*SummaryResult, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, ErrEmptyTransactionID
	}

	conv, err := s.store.Get(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	prompt := make([]llm.Message, 0, len(conv.Messages)+1)
	prompt = append(prompt, llm.Message{Role: string(models.RoleSystem), Content: summarySystemPrompt})
	for _, m := range conv.Messages {
		prompt = append(prompt, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	summary, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	metrics.SummariesTotal.Inc()

	return &SummaryResult{
		Summary:       summary,
		CollectedData: conv.CollectedData,
	}, nil
}
