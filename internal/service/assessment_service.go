package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cogassess/internal/models"
	"cogassess/internal/repository"
)

var (
	ErrQuestionsNotFound = errors.New("questions not found")
	ErrNoValidAnswers    = errors.New("no valid answers to insert")
	ErrInvalidSection    = errors.New("invalid section")
)

// SubmittedAnswer is one answer as sent by the quiz client
type SubmittedAnswer struct {
	QuestionID int64
	Answer     int
}

// Submission is a whole section's worth of answers
type Submission struct {
	UserID    string
	SessionID string
	Section   models.Section
	Answers   []SubmittedAnswer
	TimeTaken int
}

// AnswerResult reports whether one submitted answer was correct
type AnswerResult struct {
	QuestionID int64 `json:"qNumber"`
	IsCorrect  bool  `json:"is_correct"`
}

// SubmissionResult summarises a stored submission
type SubmissionResult struct {
	InsertedCount int64
	Results       []AnswerResult
	TimeRecorded  bool
	// NextSection is empty after section D
	NextSection   models.Section
	TestCompleted bool
}

// AssessmentService grades and stores quiz submissions
type AssessmentService struct {
	sessionRepo    *repository.SessionRepository
	assessmentRepo *repository.AssessmentRepository
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(sessionRepo *repository.SessionRepository, assessmentRepo *repository.AssessmentRepository) *AssessmentService {
	return &AssessmentService{
		sessionRepo:    sessionRepo,
		assessmentRepo: assessmentRepo,
	}
}

// SubmitAnswers grades the answers against the question bank, stores them
// and the section timing, and marks the test complete after D when A, B and
// C are all recorded. The answer insert and the timing insert are separate
// writes; a failure between them leaves answers without a timing row.
func (s *AssessmentService) SubmitAnswers(sub Submission) (*SubmissionResult, error) {
	if !sub.Section.Valid() {
		return nil, ErrInvalidSection
	}

	session, err := s.sessionRepo.GetSession(sub.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != sub.UserID {
		return nil, ErrSessionNotFound
	}

	ids := make([]int64, len(sub.Answers))
	for i, a := range sub.Answers {
		ids[i] = a.QuestionID
	}
	questions, err := s.assessmentRepo.GetQuestionsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuestionsNotFound
	}

	var records []models.AnswerRecord
	var results []AnswerResult
	for _, a := range sub.Answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		correct := q.CorrectAnswer == a.Answer
		records = append(records, models.AnswerRecord{
			StudentID:      sub.UserID,
			Section:        sub.Section,
			QuestionID:     a.QuestionID,
			SelectedAnswer: a.Answer,
			IsCorrect:      correct,
		})
		results = append(results, AnswerResult{QuestionID: a.QuestionID, IsCorrect: correct})
	}
	if len(records) == 0 {
		return nil, ErrNoValidAnswers
	}

	inserted, err := s.assessmentRepo.InsertAnswers(records)
	if err != nil {
		return nil, err
	}

	timing := models.SectionTiming{
		StudentID:        sub.UserID,
		Section:          sub.Section,
		TimeSpentSeconds: sub.TimeTaken,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.assessmentRepo.InsertSectionTiming(timing); err != nil {
		return nil, err
	}

	result := &SubmissionResult{
		InsertedCount: inserted,
		Results:       results,
		TimeRecorded:  true,
	}
	result.NextSection, _ = sub.Section.Next()

	if sub.Section == models.SectionComprehension {
		done, err := s.assessmentRepo.CompletedSections(sub.UserID)
		if err != nil {
			return nil, err
		}
		if done[models.SectionMath] && done[models.SectionVerbal] && done[models.SectionNonVerbal] {
			if err := s.assessmentRepo.UpsertCompletion(sub.UserID, true); err != nil {
				return nil, err
			}
			result.TestCompleted = true
			log.Printf("Assessment completed: student=%s", sub.UserID)
		}
	}

	return result, nil
}

// SectionCompleted reports whether the user has a timing row for section
func (s *AssessmentService) SectionCompleted(userID string, section models.Section) (bool, error) {
	if !section.Valid() {
		return false, ErrInvalidSection
	}
	return s.assessmentRepo.HasSectionTiming(userID, section)
}

// ListAnswers returns every stored answer labelled with its question topic
func (s *AssessmentService) ListAnswers() ([]models.AnswerRecord, error) {
	return s.assessmentRepo.ListAnswers()
}

// SeedQuestions upserts a JSON array of questions and returns how many were
// stored. Re-seeding the same file is a no-op.
func (s *AssessmentService) SeedQuestions(r io.Reader) (int, error) {
	var questions []models.Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return 0, fmt.Errorf("failed to decode questions: %w", err)
	}

	for i, q := range questions {
		if q.ID <= 0 {
			return i, fmt.Errorf("question at index %d has no id", i)
		}
		if !q.Section.Valid() {
			return i, fmt.Errorf("question %d: %w %q", q.ID, ErrInvalidSection, q.Section)
		}
		if err := s.assessmentRepo.UpsertQuestion(q); err != nil {
			return i, err
		}
	}

	return len(questions), nil
}

// SeedQuestionsFile loads the question bank from a JSON file
func (s *AssessmentService) SeedQuestionsFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open question bank: %w", err)
	}
	defer f.Close()

	return s.SeedQuestions(f)
}
