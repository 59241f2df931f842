package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bilaluali/support-gpt/internal/chat"
	"github.com/bilaluali/support-gpt/internal/llm"
	"github.com/bilaluali/support-gpt/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	svc   *chat.Service
	store store.ConversationStore
}

// NewHandler creates a new Handler with the given service and store.
func NewHandler(svc *chat.Service, st store.ConversationStore) *Handler {
	return &Handler{svc: svc, store: st}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// serviceError maps chat service failures to HTTP responses.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		h.Error(w, http.StatusBadRequest, "Message cannot be empty.")
	case errors.Is(err, chat.ErrOffensiveContent):
		h.Error(w, http.StatusBadRequest, "Message contains offensive content.")
	case errors.Is(err, chat.ErrEmptyTransactionID):
		h.Error(w, http.StatusBadRequest, "Transaction ID cannot be empty.")
	case errors.Is(err, chat.ErrConversationNotFound):
		h.Error(w, http.StatusNotFound, "Conversation not found.")
	case errors.Is(err, llm.ErrRateLimited):
		h.Error(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	default:
		h.Error(w, http.StatusInternalServerError, err.Error())
	}
}
