package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bilaluali/support-gpt/internal/api"
	"github.com/bilaluali/support-gpt/internal/api/middleware"
	"github.com/bilaluali/support-gpt/internal/chat"
	"github.com/bilaluali/support-gpt/internal/handlers"
	"github.com/bilaluali/support-gpt/internal/llm"
	"github.com/bilaluali/support-gpt/internal/models"
	"github.com/bilaluali/support-gpt/internal/store"
)

const validBlock = `<COLLECTED_DATA>{"order_number":42,"problem_category":"billing","problem_description":"charged twice","urgency_level":"high"}</COLLECTED_DATA>`

type stubLLM struct {
	completion    string
	completionErr error
	flagged       bool
}

func (s *stubLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if s.completionErr != nil {
		return "", s.completionErr
	}
	return s.completion, nil
}

func (s *stubLLM) IsOffensive(ctx context.Context, text string) (bool, error) {
	return s.flagged, nil
}

func newTestServer(t *testing.T, client llm.Client) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := chat.NewService(st, client, zerolog.Nop())
	router := api.NewRouter(zerolog.Nop(), svc, st, nil, middleware.RateLimiterConfig{
		// Whitelist the test client so handler tests don't eat the budget
		Whitelist: []string{"127.0.0.1", "192.0.2.1"},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestChatEndpointSuccess(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{completion: "Got it." + validBlock})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{
		UserMessage:   "I was charged twice",
		TransactionID: "txn-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.ChatResponse
	decodeBody(t, resp, &body)
	require.Equal(t, "txn-1", body.TransactionID)
	require.Equal(t, "Got it.", body.Response)
	require.Equal(t, int64(42), *body.CollectedData.OrderNumber)
	require.Equal(t, models.UrgencyHigh, *body.CollectedData.UrgencyLevel)
}

func TestChatEndpointGeneratesTransactionID(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{completion: "Hello!" + validBlock})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{UserMessage: "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.ChatResponse
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.TransactionID)
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{UserMessage: "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "Message cannot be empty.", body["error"])
}

func TestChatEndpointMessageTooLong(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{
		UserMessage: strings.Repeat("a", 2001),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatEndpointOffensiveContent(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{flagged: true})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{UserMessage: "something nasty"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "Message contains offensive content.", body["error"])
}

func TestChatEndpointLLMFailure(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{completionErr: errors.New("upstream exploded")})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{UserMessage: "hello"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestChatEndpointRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{completionErr: llm.ErrRateLimited})

	resp := postJSON(t, srv.URL+"/chat", handlers.ChatRequest{UserMessage: "hello"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestChatEndpointInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatEndpointRejectsWrongContentType(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp, err := http.Post(srv.URL+"/chat", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestSummaryEndpointSuccess(t *testing.T) {
	srv, st := newTestServer(t, &stubLLM{completion: "Customer has a billing issue."})

	conv := models.NewConversation("txn-1", time.Now().UTC())
	conv.Append(models.Message{Role: models.RoleUser, Content: "I was charged twice"})
	require.NoError(t, st.Put(context.Background(), "txn-1", conv))

	resp := postJSON(t, srv.URL+"/chat/summary", handlers.SummaryRequest{TransactionID: "txn-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.SummaryResponse
	decodeBody(t, resp, &body)
	require.Equal(t, "Customer has a billing issue.", body.Summary)
	require.True(t, body.CollectedData.IsEmpty())
}

func TestSummaryEndpointNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp := postJSON(t, srv.URL+"/chat/summary", handlers.SummaryRequest{TransactionID: "missing"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummaryEndpointEmptyTransactionID(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp := postJSON(t, srv.URL+"/chat/summary", handlers.SummaryRequest{TransactionID: " "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.HealthResponse
	decodeBody(t, resp, &body)
	require.Equal(t, "healthy", body.Status)
	require.Equal(t, "pass", body.Checks["store"].Status)
}
