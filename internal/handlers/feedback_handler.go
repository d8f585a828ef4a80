package handlers

import (
	"net/http"

	"cogassess/internal/service"
	"cogassess/internal/validation"
)

// FeedbackHandler handles the contact form
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// Submit stores a feedback message
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !bindAndValidate(w, r, &req, false) {
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	if _, err := h.feedbackService.Submit(r.Context(), req.Name, req.Mobile, req.Email, req.Query); err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrFeedbackFailed, "Error submitting feedback", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Feedback submitted successfully",
	})
}
