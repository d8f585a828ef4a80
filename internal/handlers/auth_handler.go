package handlers

import (
	"errors"
	"net/http"
	"time"

	"cogassess/internal/service"
	"cogassess/internal/validation"
)

// AuthHandler handles signup, login and session endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// bindAndValidate decodes the JSON body into req and validates it.
// It writes the error response itself and reports whether to continue.
func bindAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, allowEmpty bool) bool {
	if err := decodeJSON(r, req, allowEmpty); err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding request", err)
		return false
	}
	if err := validation.Struct(req); err != nil {
		var ve validation.ValidationError
		if errors.As(err, &ve) {
			respondWithError(w, r, http.StatusBadRequest, ve.Error(), "", nil)
			return false
		}
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidRequestBody, "Error validating request", err)
		return false
	}
	return true
}

// Root answers the health check
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

// Signup registers a new user
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !bindAndValidate(w, r, &req, false) {
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondWithError(w, r, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	user, student, err := h.authService.Signup(service.SignupInput{
		Name:        req.Name,
		Age:         req.Age,
		Grade:       req.Standard,
		Mobile:      req.Mobile,
		DateOfBirth: req.DateOfBirth,
		State:       req.State,
	})
	if errors.Is(err, service.ErrUserExists) {
		respondWithError(w, r, http.StatusBadRequest, "User already exists with the same name, mobile, and date of birth", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error registering user", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "User registered successfully",
		"user_id":    user.ID,
		"created_at": user.CreatedAt.Format(time.RFC3339),
		"student_id": student.StudentID,
	})
}

// Login authenticates by name, mobile and date of birth
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !bindAndValidate(w, r, &req, false) {
		return
	}

	result, err := h.authService.Login(req.Name, req.Mobile, req.DateOfBirth)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondWithError(w, r, http.StatusUnauthorized, ErrInvalidCredentials, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error logging in", err)
		return
	}

	resp := loginResponse{
		Message:   "Login successful",
		Token:     result.Session.Token,
		SessionID: result.Session.SessionID,
		User: userResponse{
			UserID:      result.User.ID,
			Name:        result.User.Name,
			Mobile:      result.User.Mobile,
			DateOfBirth: result.User.DateOfBirth,
			CreatedAt:   result.User.CreatedAt.Format(time.RFC3339),
		},
		TestCompleted:  result.TestCompleted,
		CurrentSection: string(result.CurrentSection),
	}
	if result.AlreadyLoggedIn {
		resp.Message = "Already logged in"
	}

	respondJSON(w, http.StatusOK, resp)
}

// ValidateSession reports whether a session value is stored. The value may
// come in the JSON body or as a session_id query parameter.
func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding request", err)
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.URL.Query().Get("session_id")
	}
	if req.SessionID == "" {
		respondJSON(w, http.StatusOK, map[string]bool{"valid": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"valid": h.authService.SessionExists(req.SessionID)})
}

// Protected checks the signed token and the session for a user
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	sessionID := q.Get("session_id")
	userID := q.Get("user_id")

	if token == "" || sessionID == "" || userID == "" {
		respondWithError(w, r, http.StatusBadRequest, "token, session_id and user_id are required", "", nil)
		return
	}

	err := h.authService.Protected(token, sessionID, userID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "You are authenticated",
			"user_id": userID,
		})
	case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrTokenExpired):
		respondWithError(w, r, http.StatusUnauthorized, ErrInvalidToken, "", nil)
	case errors.Is(err, service.ErrInvalidSession):
		respondWithError(w, r, http.StatusUnauthorized, ErrInvalidSession, "", nil)
	default:
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error checking session", err)
	}
}

// Logout deletes the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding request", err)
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.URL.Query().Get("session_id")
	}
	if req.SessionID == "" {
		respondWithError(w, r, http.StatusBadRequest, "session_id: is required", "", nil)
		return
	}

	err := h.authService.Logout(req.SessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		respondWithError(w, r, http.StatusNotFound, ErrSessionNotFound, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "Error logging out", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}
