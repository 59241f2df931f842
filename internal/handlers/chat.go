package handlers

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/bilaluali/support-gpt/internal/models"
)

const maxMessageLength = 2000

// ChatRequest represents the chat request body.
type ChatRequest struct {
	UserMessage   string `json:"user_message"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// ChatResponse represents the chat response.
type ChatResponse struct {
	TransactionID string               `json:"transaction_id"`
	Response      string               `json:"response"`
	CollectedData models.CollectedData `json:"collected_data"`
}

// Chat handles one conversation turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if utf8.RuneCountInString(req.UserMessage) > maxMessageLength {
		h.Error(w, http.StatusBadRequest, "Message must be at most 2000 characters.")
		return
	}

	result, err := h.svc.Chat(r.Context(), req.TransactionID, req.UserMessage)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, ChatResponse{
		TransactionID: result.TransactionID,
		Response:      result.Reply,
		CollectedData: result.CollectedData,
	})
}
