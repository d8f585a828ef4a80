package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cogassess/internal/database"
	"cogassess/internal/models"
)

// SessionRepository handles database operations for login sessions
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession stores a new session row
func (r *SessionRepository) CreateSession(session *models.Session) error {
	query := `
		INSERT INTO sessions (session_id, user_id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, session.SessionID, session.UserID, session.Token, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetLatestSessionByUser returns the user's most recently created session,
// expired or not, or nil when the user has none.
func (r *SessionRepository) GetLatestSessionByUser(userID string) (*models.Session, error) {
	query := `
		SELECT session_id, user_id, token, created_at, expires_at
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanSession(r.db.QueryRow(query, userID))
}

// GetSession retrieves a session by its stored value, or nil when absent
func (r *SessionRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT session_id, user_id, token, created_at, expires_at
		FROM sessions
		WHERE session_id = ?
	`
	return scanSession(r.db.QueryRow(query, sessionID))
}

// SessionExists reports whether a row with this session id is stored
func (r *SessionRepository) SessionExists(sessionID string) (bool, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE session_id = ?", sessionID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return count > 0, nil
}

// DeleteSession removes a session and reports whether a row was deleted
func (r *SessionRepository) DeleteSession(sessionID string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return n > 0, nil
}

// DeleteExpiredSessions removes all sessions that expired before now
func (r *SessionRepository) DeleteExpiredSessions(now time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func scanSession(row *sql.Row) (*models.Session, error) {
	session := &models.Session{}
	err := row.Scan(
		&session.SessionID,
		&session.UserID,
		&session.Token,
		&session.CreatedAt,
		&session.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.CreatedAt = session.CreatedAt.UTC()
	session.ExpiresAt = session.ExpiresAt.UTC()
	return session, nil
}
