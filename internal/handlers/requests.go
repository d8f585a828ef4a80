package handlers

import "cogassess/internal/service"

type signupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Age         int    `json:"age" validate:"required,gte=1,lte=120"`
	Standard    int    `json:"standard" validate:"required,gte=1,lte=12"`
	Mobile      int64  `json:"mobile" validate:"required,gte=1"`
	DateOfBirth string `json:"date_of_birth" validate:"required,isodate"`
	State       string `json:"state" validate:"required,max=100"`
}

type loginRequest struct {
	Name        string `json:"name" validate:"required"`
	Mobile      int64  `json:"mobile" validate:"required,gte=1"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

type sessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type sectionRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Section string `json:"section" validate:"required,section"`
}

type answerItem struct {
	QNumber int64 `json:"qNumber" validate:"gte=1"`
	Answer  int   `json:"answer"`
}

type submitRequest struct {
	UserID    string       `json:"userId" validate:"required"`
	SessionID string       `json:"sessionId" validate:"required"`
	Section   string       `json:"section" validate:"required,section"`
	Answers   []answerItem `json:"answers" validate:"required,min=1,dive"`
	TimeTaken int          `json:"timeTaken" validate:"gte=0"`
}

type feedbackRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Mobile int64  `json:"mobile" validate:"required,gte=1"`
	Email  string `json:"email" validate:"required"`
	Query  string `json:"query" validate:"required,max=2000"`
}

type userResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Mobile      int64  `json:"mobile"`
	DateOfBirth string `json:"date_of_birth"`
	CreatedAt   string `json:"created_at"`
}

type loginResponse struct {
	Message        string       `json:"message"`
	Token          string       `json:"token"`
	SessionID      string       `json:"session_id"`
	User           userResponse `json:"user"`
	TestCompleted  bool         `json:"test_completed"`
	CurrentSection string       `json:"current_section,omitempty"`
}

type submitResponse struct {
	Status         string                 `json:"status"`
	InsertedCount  int64                  `json:"inserted_count"`
	Results        []service.AnswerResult `json:"results"`
	TimeRecorded   bool                   `json:"time_recorded"`
	CurrentSection string                 `json:"current_section,omitempty"`
}
