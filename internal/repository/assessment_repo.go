package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"cogassess/internal/database"
	"cogassess/internal/models"
)

// AssessmentRepository handles questions, answers, section timings and
// completion status
type AssessmentRepository struct {
	db database.DBTX
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db database.DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// GetQuestionsByIDs returns the answer key for the given question ids.
// Unknown ids are simply absent from the result.
func (r *AssessmentRepository) GetQuestionsByIDs(ids []int64) (map[int64]models.Question, error) {
	questions := make(map[int64]models.Question)
	if len(ids) == 0 {
		return questions, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `
		SELECT question_id, section, topic, correct_answer
		FROM questions
		WHERE question_id IN (` + placeholders(len(ids)) + `)
	`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Section, &q.Topic, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// UpsertQuestion inserts a question or replaces the stored answer key
func (r *AssessmentRepository) UpsertQuestion(q models.Question) error {
	query := r.db.GetDialect().UpsertQuery("questions",
		[]string{"question_id"},
		[]string{"question_id", "section", "topic", "correct_answer"},
		[]string{"section", "topic", "correct_answer"},
	)
	if _, err := r.db.Exec(query, q.ID, string(q.Section), q.Topic, q.CorrectAnswer); err != nil {
		return fmt.Errorf("failed to upsert question %d: %w", q.ID, err)
	}
	return nil
}

// InsertAnswers writes all answers with a single multi-row INSERT and
// returns the number of rows stored.
func (r *AssessmentRepository) InsertAnswers(answers []models.AnswerRecord) (int64, error) {
	if len(answers) == 0 {
		return 0, nil
	}

	values := make([]string, len(answers))
	args := make([]interface{}, 0, len(answers)*5)
	for i, a := range answers {
		values[i] = "(?, ?, ?, ?, ?)"
		args = append(args, a.StudentID, string(a.Section), a.QuestionID, a.SelectedAnswer, a.IsCorrect)
	}

	query := `
		INSERT INTO student_answers (student_id, section, question_id, selected_answer, is_correct)
		VALUES ` + strings.Join(values, ", ")

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert answers: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inserted answers: %w", err)
	}
	return n, nil
}

// InsertSectionTiming records the time spent on one section attempt
func (r *AssessmentRepository) InsertSectionTiming(t models.SectionTiming) error {
	query := `
		INSERT INTO student_section_time (student_id, section, time_spent_seconds, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, t.StudentID, string(t.Section), t.TimeSpentSeconds, t.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert section timing: %w", err)
	}
	return nil
}

// HasSectionTiming reports whether the student has a timing row for section
func (r *AssessmentRepository) HasSectionTiming(studentID string, section models.Section) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM student_section_time WHERE student_id = ? AND section = ?"
	if err := r.db.QueryRow(query, studentID, string(section)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check section timing: %w", err)
	}
	return count > 0, nil
}

// CompletedSections returns the set of sections that have a timing row
func (r *AssessmentRepository) CompletedSections(studentID string) (map[models.Section]bool, error) {
	rows, err := r.db.Query("SELECT DISTINCT section FROM student_section_time WHERE student_id = ?", studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query section timings: %w", err)
	}
	defer rows.Close()

	done := make(map[models.Section]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		done[models.Section(s)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate section timings: %w", err)
	}
	return done, nil
}

// GetCompletion returns the student's completion row, or nil if none exists
func (r *AssessmentRepository) GetCompletion(studentID string) (*models.CompletionStatus, error) {
	status := &models.CompletionStatus{}
	err := r.db.QueryRow("SELECT student_id, completed FROM test_completed WHERE student_id = ?", studentID).
		Scan(&status.StudentID, &status.Completed)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completion status: %w", err)
	}
	return status, nil
}

// UpsertCompletion creates or updates the student's completion flag
func (r *AssessmentRepository) UpsertCompletion(studentID string, completed bool) error {
	query := r.db.GetDialect().UpsertQuery("test_completed",
		[]string{"student_id"},
		[]string{"student_id", "completed"},
		[]string{"completed"},
	)
	if _, err := r.db.Exec(query, studentID, completed); err != nil {
		return fmt.Errorf("failed to upsert completion status: %w", err)
	}
	return nil
}

// ListAnswers returns every stored answer, labelled with the question's
// topic when the question bank has one.
func (r *AssessmentRepository) ListAnswers() ([]models.AnswerRecord, error) {
	query := `
		SELECT a.student_id, a.section, a.question_id, a.selected_answer, a.is_correct, COALESCE(q.topic, '')
		FROM student_answers a
		LEFT JOIN questions q ON q.question_id = a.question_id
		ORDER BY a.student_id, a.section, a.id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var answers []models.AnswerRecord
	for rows.Next() {
		var a models.AnswerRecord
		var section string
		if err := rows.Scan(&a.StudentID, &section, &a.QuestionID, &a.SelectedAnswer, &a.IsCorrect, &a.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		a.Section = models.Section(section)
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answers: %w", err)
	}
	return answers, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
