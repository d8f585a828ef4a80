package handlers

import (
	"errors"
	"net/http"

	"cogassess/internal/models"
	"cogassess/internal/service"
	"cogassess/internal/validation"
)

// AssessmentHandler handles quiz submission endpoints
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentService *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
	}
}

// Submit grades and stores one section's answers
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !bindAndValidate(w, r, &req, false) {
		return
	}

	answers := make([]service.SubmittedAnswer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = service.SubmittedAnswer{QuestionID: a.QNumber, Answer: a.Answer}
	}

	result, err := h.assessmentService.SubmitAnswers(service.Submission{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Section:   models.Section(req.Section),
		Answers:   answers,
		TimeTaken: req.TimeTaken,
	})
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, r, http.StatusNotFound, ErrSessionMissing, "", nil)
		return
	case errors.Is(err, service.ErrQuestionsNotFound):
		respondWithError(w, r, http.StatusNotFound, ErrQuestionsNotFound, "", nil)
		return
	case errors.Is(err, service.ErrNoValidAnswers):
		respondWithError(w, r, http.StatusBadRequest, ErrNoValidAnswers, "", nil)
		return
	case errors.Is(err, service.ErrInvalidSection):
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
		return
	case err != nil:
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error submitting answers", err)
		return
	}

	respondJSON(w, http.StatusOK, submitResponse{
		Status:         "success",
		InsertedCount:  result.InsertedCount,
		Results:        result.Results,
		TimeRecorded:   result.TimeRecorded,
		CurrentSection: string(result.NextSection),
	})
}

// SectionStatus reports whether a user has a timing row for a section.
// Fields may come in the JSON body or as user_id/section query parameters.
func (h *AssessmentHandler) SectionStatus(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding request", err)
		return
	}
	q := r.URL.Query()
	if req.UserID == "" {
		req.UserID = q.Get("user_id")
	}
	if req.Section == "" {
		req.Section = q.Get("section")
	}
	if err := validation.Struct(&req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	completed, err := h.assessmentService.SectionCompleted(req.UserID, models.Section(req.Section))
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error checking section", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Section completion status",
		"completed": completed,
	})
}
