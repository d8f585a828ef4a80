package dashboard

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogassess/internal/analytics"
	"cogassess/internal/llm"
	"cogassess/internal/models"
)

func sampleAnswers() []models.AnswerRecord {
	rec := func(student string, section models.Section, correct bool, topic string) models.AnswerRecord {
		return models.AnswerRecord{StudentID: student, Section: section, IsCorrect: correct, Topic: topic}
	}
	return []models.AnswerRecord{
		rec("1", "A", true, "Algebra"),
		rec("1", "A", false, "Geometry"),
		rec("1", "B", true, "Vocabulary"),
		rec("1", "B", true, "Grammar"),
		rec("1", "C", false, "Patterns"),
		rec("1", "D", true, "Main Idea"),
		rec("2", "A", true, "Algebra"),
		rec("2", "B", false, "Vocabulary"),
		rec("2", "C", true, "Patterns"),
		rec("2", "D", false, "Details"),
	}
}

func TestBuildReport(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "## Analysis\nGood start."},
	)

	r, err := BuildReport(context.Background(), sampleAnswers(), "1", mock, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "1", r.StudentID)
	assert.Equal(t, 75.0, r.Class.Sections[models.SectionMath])
	assert.InDelta(t, 58.3333, r.Class.Overall, 1e-3)

	require.Len(t, r.Sections, 4)
	assert.Equal(t, SectionRow{Section: "A", Correct: 1, Total: 2, Score: 50, ClassAvg: 75, Diff: -25}, r.Sections[0])
	assert.Equal(t, 50.0, r.Sections[1].Diff)

	assert.InDelta(t, 66.6667, r.Overall.Percentage, 1e-3)
	assert.InDelta(t, 8.3333, r.OverallDiff, 1e-3)
	assert.Equal(t, []models.Section{"B", "D"}, r.Strengths)
	assert.Equal(t, []models.Section{"A", "C"}, r.Weaknesses)

	assert.Len(t, r.Topics, 6)
	assert.Len(t, r.RuleBased, 4)
	assert.Contains(t, r.RuleBased[models.SectionMath][0], "Significant improvement needed in Math")

	require.Len(t, r.LLMInsights, 4)
	assert.Equal(t, "Good start.", r.LLMInsights[models.SectionMath].Analysis)
	assert.True(t, r.LLMInsights[models.SectionVerbal].Empty())
	assert.Equal(t, 4, mock.CallCount())
}

func TestBuildReport_UnknownStudent(t *testing.T) {
	_, err := BuildReport(context.Background(), sampleAnswers(), "99", nil, time.Minute)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestRender(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Free-form advice without headers."})
	r, err := BuildReport(context.Background(), sampleAnswers(), "1", mock, time.Minute)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Detailed analysis for student 1")
	assert.Contains(t, out, "Subject")
	assert.Contains(t, out, "Class Avg")
	assert.Contains(t, out, "-25.0%")
	assert.Contains(t, out, "Strengths: Verbal, Comprehension")
	assert.Contains(t, out, "Free-form advice without headers.")
	assert.Contains(t, out, "No recommendations available.")
	assert.Contains(t, out, "Personalized recommendations")
	assert.Contains(t, out, "[Non-verbal (C)]")
}

func TestRender_WithoutProvider(t *testing.T) {
	r, err := BuildReport(context.Background(), sampleAnswers(), "2", nil, time.Minute)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r))
	assert.Contains(t, buf.String(), "AI topic recommendations are disabled")
}

func TestRenderStudents(t *testing.T) {
	_, students := analytics.Aggregate(sampleAnswers())

	var buf bytes.Buffer
	require.NoError(t, RenderStudents(&buf, students))
	assert.Contains(t, buf.String(), "66.7%")
	assert.Contains(t, buf.String(), "50.0%")
}
