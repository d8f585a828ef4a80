package handlers

const (
	maxBodyBytes = 1 << 20

	ErrInvalidRequestBody  = "Invalid request body"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests, please try again later"

	ErrInvalidCredentials = "Invalid credentials"
	ErrInvalidToken       = "Invalid or expired token"
	ErrInvalidSession     = "Invalid session"
	ErrSessionNotFound    = "Session not found"
	ErrSessionMissing     = "Session does not exist"
	ErrQuestionsNotFound  = "Questions not found"
	ErrNoValidAnswers     = "No valid answers to insert"
	ErrFeedbackFailed     = "Failed to submit feedback"
)
