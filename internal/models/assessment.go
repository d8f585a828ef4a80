package models

import "time"

// Question holds the answer key for one quiz item
type Question struct {
	ID            int64   `json:"id"`
	Section       Section `json:"section"`
	Topic         string  `json:"topic,omitempty"`
	CorrectAnswer int     `json:"correct_answer"`
}

// AnswerRecord is a single graded answer.
// Topic is only populated by analytics sources that carry topic labels.
type AnswerRecord struct {
	StudentID      string
	Section        Section
	QuestionID     int64
	SelectedAnswer int
	IsCorrect      bool
	Topic          string
}

// SectionTiming records how long a student spent on a section attempt
type SectionTiming struct {
	StudentID        string
	Section          Section
	TimeSpentSeconds int
	CreatedAt        time.Time
}

// CompletionStatus tracks whether a student finished the whole assessment
type CompletionStatus struct {
	StudentID string
	Completed bool
}

// Feedback is a message left through the contact form
type Feedback struct {
	ID        int64
	Name      string
	Mobile    int64
	Email     string
	Query     string
	CreatedAt time.Time
}
