package llm

import (
	"context"
	"errors"
)

// ErrRateLimited is returned once the retry budget for rate-limited API
// calls is exhausted. Handlers surface it as 429.
var ErrRateLimited = errors.New("rate limit exceeded")

// Message is one prompt entry sent to the completion API.
type Message struct {
	Role    string
	Content string
}

// Client is the LLM collaborator consumed by the chat service: one
// synchronous completion per call, plus the moderation gate. Both may block
// for a bounded time (retries with backoff) before failing terminally.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	IsOffensive(ctx context.Context, text string) (bool, error)
}
