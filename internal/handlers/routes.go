package handlers

import "net/http"

// NewRouter registers the API routes and wraps them with logging and CORS
func NewRouter(auth *AuthHandler, assessment *AssessmentHandler, feedback *FeedbackHandler, mw *Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", auth.Root)
	mux.HandleFunc("GET /api/{$}", auth.Root)

	// Auth
	mux.HandleFunc("POST /api/signup", mw.RateLimit(auth.Signup))
	mux.HandleFunc("POST /api/login", mw.RateLimit(auth.Login))
	mux.HandleFunc("POST /api/session", auth.ValidateSession)
	mux.HandleFunc("GET /api/protected", auth.Protected)
	mux.HandleFunc("POST /api/logout", auth.Logout)

	// Quiz
	mux.HandleFunc("POST /api/submit", assessment.Submit)
	mux.HandleFunc("POST /api/section", assessment.SectionStatus)

	mux.HandleFunc("POST /api/feedback", feedback.Submit)

	return Logging(CORS(mux))
}
