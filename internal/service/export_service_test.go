package service

import (
	"bytes"
	"errors"
	"testing"

	"cogassess/internal/models"
)

type stubAnswers struct {
	answers []models.AnswerRecord
	err     error
}

func (s stubAnswers) ListAnswers() ([]models.AnswerRecord, error) { return s.answers, s.err }

func TestExportAnswersCSV(t *testing.T) {
	src := stubAnswers{answers: []models.AnswerRecord{
		{StudentID: "s1", Section: models.SectionMath, QuestionID: 1, SelectedAnswer: 2, IsCorrect: true, Topic: "Fractions"},
		{StudentID: "s1", Section: models.SectionVerbal, QuestionID: 9, SelectedAnswer: 1, IsCorrect: false},
	}}

	var buf bytes.Buffer
	n, err := NewExportService(src).ExportAnswersCSV(&buf)
	if err != nil {
		t.Fatalf("ExportAnswersCSV() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ExportAnswersCSV() = %d, want 2", n)
	}

	want := "student_id,section,question_id,selected_answer,is_correct,topic\n" +
		"s1,A,1,2,true,Fractions\n" +
		"s1,B,9,1,false,\n"
	if buf.String() != want {
		t.Errorf("export =\n%s\nwant\n%s", buf.String(), want)
	}

	if _, err := NewExportService(stubAnswers{err: errors.New("db down")}).ExportAnswersCSV(&bytes.Buffer{}); err == nil {
		t.Error("expected error from failing source")
	}
}
