package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cogassess/internal/models"
	"cogassess/internal/repository"
	"cogassess/internal/security"

	"github.com/google/uuid"
)

var (
	ErrUserExists         = errors.New("user already exists with the same name, mobile, and date of birth")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidSession     = errors.New("invalid session")
	ErrTokenInvalid       = security.ErrTokenInvalid
	ErrTokenExpired       = security.ErrTokenExpired
)

// SessionStatus is the outcome of checking a presented session value.
// Only SessionValid grants access.
type SessionStatus int

const (
	SessionValid SessionStatus = iota
	SessionNotFound
	SessionExpired
	SessionMismatched
)

// Valid reports whether the status grants access
func (s SessionStatus) Valid() bool {
	return s == SessionValid
}

func (s SessionStatus) String() string {
	switch s {
	case SessionValid:
		return "valid"
	case SessionNotFound:
		return "not found"
	case SessionExpired:
		return "expired"
	case SessionMismatched:
		return "mismatched"
	}
	return fmt.Sprintf("SessionStatus(%d)", int(s))
}

// SignupInput carries the fields collected at registration
type SignupInput struct {
	Name        string
	Age         int
	Grade       int
	Mobile      int64
	DateOfBirth string
	State       string
}

// LoginResult is everything the login endpoint reports back
type LoginResult struct {
	Session         *models.Session
	User            *models.User
	AlreadyLoggedIn bool
	TestCompleted   bool
	// CurrentSection is empty when the test is completed
	CurrentSection models.Section
}

// AuthService handles signup, login and session lifecycle
type AuthService struct {
	userRepo        *repository.UserRepository
	sessionRepo     *repository.SessionRepository
	assessmentRepo  *repository.AssessmentRepository
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	assessmentRepo *repository.AssessmentRepository,
	tokens *security.TokenIssuer,
	sessionDuration time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		assessmentRepo:  assessmentRepo,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// Signup registers a new user and the matching student row
func (s *AuthService) Signup(in SignupInput) (*models.User, *models.Student, error) {
	in.Name = strings.TrimSpace(in.Name)

	existing, err := s.userRepo.FindByIdentity(in.Name, in.Mobile, in.DateOfBirth, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrUserExists
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Age:         in.Age,
		Grade:       in.Grade,
		Mobile:      in.Mobile,
		DateOfBirth: in.DateOfBirth,
		State:       in.State,
		CreatedAt:   time.Now().UTC(),
	}

	student, err := s.userRepo.CreateUser(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("User registered: id=%s", user.ID)
	return user, student, nil
}

// Login matches the user by name (case-insensitive), mobile and date of
// birth. An unexpired session is returned unchanged; otherwise a new one is
// issued.
func (s *AuthService) Login(name string, mobile int64, dateOfBirth string) (*LoginResult, error) {
	user, err := s.userRepo.FindByIdentity(strings.TrimSpace(name), mobile, dateOfBirth, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	result := &LoginResult{User: user}

	status, err := s.assessmentRepo.GetCompletion(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completion status: %w", err)
	}
	if status == nil {
		if err := s.assessmentRepo.UpsertCompletion(user.ID, false); err != nil {
			return nil, fmt.Errorf("failed to create completion status: %w", err)
		}
	} else {
		result.TestCompleted = status.Completed
	}

	if !result.TestCompleted {
		done, err := s.assessmentRepo.CompletedSections(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get section progress: %w", err)
		}
		result.CurrentSection = models.CurrentSection(done)
	}

	existing, err := s.sessionRepo.GetLatestSessionByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if existing != nil && !existing.IsExpired() {
		result.Session = existing
		result.AlreadyLoggedIn = true
		return result, nil
	}

	session, err := s.IssueSession(user.ID)
	if err != nil {
		return nil, err
	}
	result.Session = session

	return result, nil
}

// IssueSession creates and stores a new session for userID. The returned
// SessionID is the bcrypt hash the client must present on later calls.
func (s *AuthService) IssueSession(userID string) (*models.Session, error) {
	raw, err := security.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	hashed, err := security.HashSessionID(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.sessionDuration)

	token, err := s.tokens.Issue(userID, expiresAt)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		SessionID: hashed,
		UserID:    userID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession checks a presented session value against the user's
// stored session
func (s *AuthService) ValidateSession(sessionValue, userID string) (SessionStatus, error) {
	session, err := s.sessionRepo.GetLatestSessionByUser(userID)
	if err != nil {
		return SessionNotFound, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return SessionNotFound, nil
	}
	if session.IsExpired() {
		return SessionExpired, nil
	}
	if !security.SessionMatches(sessionValue, session.SessionID) {
		return SessionMismatched, nil
	}
	return SessionValid, nil
}

// ValidateToken verifies a signed credential and returns its user id
func (s *AuthService) ValidateToken(token string) (string, error) {
	return s.tokens.Parse(token)
}

// Protected checks the signed credential first, then the session
func (s *AuthService) Protected(token, sessionValue, userID string) error {
	if _, err := s.ValidateToken(token); err != nil {
		return err
	}

	status, err := s.ValidateSession(sessionValue, userID)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSession, status)
	}
	return nil
}

// SessionExists reports whether a session row with this value is stored.
// Lookup failures are logged and reported as false.
func (s *AuthService) SessionExists(sessionValue string) bool {
	exists, err := s.sessionRepo.SessionExists(sessionValue)
	if err != nil {
		log.Printf("Error validating session: %v", err)
		return false
	}
	return exists
}

// Logout deletes the session
func (s *AuthService) Logout(sessionValue string) error {
	deleted, err := s.sessionRepo.DeleteSession(sessionValue)
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() (int64, error) {
	n, err := s.sessionRepo.DeleteExpiredSessions(time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return n, nil
}
