package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cogassess/internal/models"
)

// answerSource lists stored answers; satisfied by AssessmentService
type answerSource interface {
	ListAnswers() ([]models.AnswerRecord, error)
}

// ExportService writes stored answers in the tabular format the dashboard
// reads
type ExportService struct {
	answers answerSource
}

// NewExportService creates a new export service
func NewExportService(answers answerSource) *ExportService {
	return &ExportService{answers: answers}
}

// ExportAnswersCSV writes a header and one row per stored answer and
// returns the number of answer rows written
func (s *ExportService) ExportAnswersCSV(w io.Writer) (int, error) {
	answers, err := s.answers.ListAnswers()
	if err != nil {
		return 0, fmt.Errorf("failed to list answers: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student_id", "section", "question_id", "selected_answer", "is_correct", "topic"}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for _, a := range answers {
		row := []string{
			a.StudentID,
			string(a.Section),
			strconv.FormatInt(a.QuestionID, 10),
			strconv.Itoa(a.SelectedAnswer),
			strconv.FormatBool(a.IsCorrect),
			a.Topic,
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write answer row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}

	return len(answers), nil
}
