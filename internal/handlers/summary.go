package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilaluali/support-gpt/internal/models"
)

// SummaryRequest represents the summary request body.
type SummaryRequest struct {
	TransactionID string `json:"transaction_id"`
}

// SummaryResponse represents the summary response.
type SummaryResponse struct {
	Summary       string               `json:"summary"`
	CollectedData models.CollectedData `json:"collected_data"`
}

// Summary handles summarizing an existing conversation.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.svc.Summarize(r.Context(), req.TransactionID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, SummaryResponse{
		Summary:       result.Summary,
		CollectedData: result.CollectedData,
	})
}
