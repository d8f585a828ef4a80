package repository

import (
	"fmt"

	"cogassess/internal/database"
	"cogassess/internal/models"
)

// FeedbackRepository stores contact-form messages
type FeedbackRepository struct {
	db database.DBTX
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db database.DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateFeedback inserts the message and sets its ID
func (r *FeedbackRepository) CreateFeedback(f *models.Feedback) error {
	query := `
		INSERT INTO feedback (name, mobile, email, query, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, f.Name, f.Mobile, f.Email, f.Query, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	f.ID = id
	return nil
}
