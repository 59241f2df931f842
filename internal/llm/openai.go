package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bilaluali/support-gpt/internal/metrics"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.2 // lower temperature for more deterministic replies
	DefaultMaxTokens   = 150

	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// OpenAIOptions configures the OpenAI client. Zero fields fall back to the
// defaults above.
type OpenAIOptions struct {
	BaseURL     string // override for tests / proxies
	Model       string
	Temperature float32
	MaxTokens   int
	MaxRetries  int
	BaseDelay   time.Duration
}

// OpenAIClient calls the OpenAI chat completion and moderation APIs,
// retrying rate-limited requests with exponential backoff.
type OpenAIClient struct {
	api        *openai.Client
	model      string
	temp       float32
	maxTokens  int
	maxRetries int
	baseDelay  time.Duration
	logger     zerolog.Logger

	sleep func(time.Duration) // swapped out in tests
}

// NewOpenAIClient creates a client for the given API key.
func NewOpenAIClient(apiKey string, opts OpenAIOptions, logger zerolog.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = DefaultBaseDelay
	}

	return &OpenAIClient{
		api:        openai.NewClientWithConfig(cfg),
		model:      opts.Model,
		temp:       opts.Temperature,
		maxTokens:  opts.MaxTokens,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Complete requests a single chat completion for the given prompt.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	apiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		apiMessages = append(apiMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var content string
	err := c.withRetries(ctx, "completion", func() error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    apiMessages,
			Temperature: c.temp,
			MaxTokens:   c.maxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("openai returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// IsOffensive checks the text against the OpenAI moderation API.
func (c *OpenAIClient) IsOffensive(ctx context.Context, text string) (bool, error) {
	var flagged bool
	err := c.withRetries(ctx, "moderation", func() error {
		resp, err := c.api.Moderations(ctx, openai.ModerationRequest{Input: text})
		if err != nil {
			return err
		}
		if len(resp.Results) == 0 {
			return errors.New("openai returned no moderation results")
		}
		flagged = resp.Results[0].Flagged
		return nil
	})
	if err != nil {
		return false, err
	}
	return flagged, nil
}

// withRetries runs op, retrying rate-limited attempts with exponential
// backoff (baseDelay * 2^attempt). Exhausting the budget returns
// ErrRateLimited; any other failure propagates immediately.
func (c *OpenAIClient) withRetries(ctx context.Context, operation string, op func() error) error {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		err := op()
		metrics.LLMRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

		if err == nil {
			return nil
		}
		if !isRateLimit(err) {
			return fmt.Errorf("openai %s failed: %w", operation, err)
		}
		if attempt >= c.maxRetries {
			break
		}

		delay := c.baseDelay * (1 << attempt)
		c.logger.Warn().
			Str("operation", operation).
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("rate limit hit, retrying")
		metrics.LLMRetriesTotal.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.sleep(delay)
	}

	c.logger.Error().
		Str("operation", operation).
		Int("max_retries", c.maxRetries).
		Msg("rate limit exceeded after retries")
	return ErrRateLimited
}

// isRateLimit reports whether the error is an HTTP 429 from the API.
func isRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
