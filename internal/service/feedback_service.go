package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cogassess/internal/models"
	"cogassess/internal/repository"
)

// feedbackNotifier delivers a copy of new feedback to the team
type feedbackNotifier interface {
	IsEnabled() bool
	SendFeedbackNotification(ctx context.Context, toEmail string, f *models.Feedback) error
}

// FeedbackService stores contact-form messages
type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
	notifier     feedbackNotifier
	notifyEmail  string
}

// NewFeedbackService creates a new feedback service. Notifications are sent
// only when notifier is enabled and notifyEmail is set.
func NewFeedbackService(feedbackRepo *repository.FeedbackRepository, notifier feedbackNotifier, notifyEmail string) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		notifier:     notifier,
		notifyEmail:  notifyEmail,
	}
}

// Submit stores the feedback and sends the notification email. An email
// failure is logged and does not fail the submission.
func (s *FeedbackService) Submit(ctx context.Context, name string, mobile int64, email, query string) (*models.Feedback, error) {
	f := &models.Feedback{
		Name:      strings.TrimSpace(name),
		Mobile:    mobile,
		Email:     strings.TrimSpace(email),
		Query:     query,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.feedbackRepo.CreateFeedback(f); err != nil {
		return nil, fmt.Errorf("failed to submit feedback: %w", err)
	}

	if s.notifier != nil && s.notifier.IsEnabled() && s.notifyEmail != "" {
		if err := s.notifier.SendFeedbackNotification(ctx, s.notifyEmail, f); err != nil {
			log.Printf("Warning: failed to send feedback notification for %d: %v", f.ID, err)
		}
	}

	return f, nil
}
