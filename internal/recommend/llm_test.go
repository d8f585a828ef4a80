package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogassess/internal/analytics"
	"cogassess/internal/llm"
	"cogassess/internal/models"
)

func TestParseInsight(t *testing.T) {
	t.Run("markdown headers", func(t *testing.T) {
		text := "Here is my review.\n\n## Analysis\nStrong in algebra.\n\n## Recommendations\n- Drill fractions\n- Review geometry\n\n## Study Plan\nMonday: fractions"
		got := ParseInsight(text)
		assert.Equal(t, "Strong in algebra.", got.Analysis)
		assert.Equal(t, "- Drill fractions\n- Review geometry", got.Recommendations)
		assert.Equal(t, "Monday: fractions", got.StudyPlan)
		assert.Equal(t, text, got.FullResponse)
		assert.True(t, got.Structured())
	})

	t.Run("bold and numbered headers", func(t *testing.T) {
		text := "**Analysis:**\nGood effort.\n2. Recommendation:\nRead daily.\n**STUDY PLAN**\nWeek one."
		got := ParseInsight(text)
		assert.Equal(t, "Good effort.", got.Analysis)
		assert.Equal(t, "Read daily.", got.Recommendations)
		assert.Equal(t, "Week one.", got.StudyPlan)
	})

	t.Run("no headers keeps full text", func(t *testing.T) {
		got := ParseInsight("  Just practise more.  ")
		assert.False(t, got.Structured())
		assert.Equal(t, "Just practise more.", got.FullResponse)
	})

	t.Run("header words inside sentences are not headers", func(t *testing.T) {
		got := ParseInsight("My analysis is that you did well.")
		assert.False(t, got.Structured())
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, ParseInsight("   \n").Empty())
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(
		analytics.SectionScore{Section: models.SectionMath, Correct: 3, Total: 6, Percentage: 50},
		[]analytics.TopicScore{
			{Section: "A", Topic: "Geometry", Correct: 0, Total: 2, Accuracy: 0, IsWeak: true},
			{Section: "A", Topic: "Algebra", Correct: 3, Total: 4, Accuracy: 75},
		},
	)
	assert.Contains(t, prompt, "Math section")
	assert.Contains(t, prompt, "scored 50.0% (3/6 correct)")
	assert.Contains(t, prompt, "- Geometry: 0/2 correct (0.0%)")
	assert.Contains(t, prompt, "Weak topics (below 50% accuracy): Geometry")
	assert.Contains(t, prompt, "## Study Plan")
}

func topicAnswers() []models.AnswerRecord {
	return []models.AnswerRecord{
		{StudentID: "1", Section: "A", Topic: "Algebra", IsCorrect: true},
		{StudentID: "1", Section: "A", Topic: "Geometry", IsCorrect: false},
		{StudentID: "1", Section: "B", Topic: "Vocabulary", IsCorrect: false},
		{StudentID: "1", Section: "C", IsCorrect: true},
		{StudentID: "2", Section: "D", Topic: "Main Idea", IsCorrect: true},
	}
}

func TestTopicRecommendations(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "## Analysis\nMixed.\n## Recommendations\nPractice geometry.\n## Study Plan\nDaily drills."},
		llm.MockResponse{Err: fmt.Errorf("%w: %w", llm.ErrUnavailable, errors.New("boom"))},
	)

	got := TopicRecommendations(context.Background(), mock, topicAnswers(), "1", 0)

	require.Len(t, got, 2)
	assert.Equal(t, "Mixed.", got[models.SectionMath].Analysis)
	assert.Equal(t, "Practice geometry.", got[models.SectionMath].Recommendations)
	assert.True(t, got[models.SectionVerbal].Empty())
	_, hasC := got[models.SectionNonVerbal]
	assert.False(t, hasC)

	require.Equal(t, 2, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Prompt, "Math section")
	assert.Contains(t, mock.Calls[1].Prompt, "Verbal section")
	assert.Equal(t, systemPrompt, mock.Calls[0].System)
}

func TestTopicRecommendations_Degrades(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		assert.Empty(t, TopicRecommendations(context.Background(), nil, topicAnswers(), "1", 0))
	})

	t.Run("no topic data", func(t *testing.T) {
		mock := llm.NewMockProvider()
		answers := []models.AnswerRecord{{StudentID: "1", Section: "A", IsCorrect: true}}
		assert.Empty(t, TopicRecommendations(context.Background(), mock, answers, "1", 0))
		assert.Zero(t, mock.CallCount())
	})

	t.Run("empty completion", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Text: "  "})
		got := TopicRecommendations(context.Background(), mock, topicAnswers(), "2", 0)
		require.Len(t, got, 1)
		assert.True(t, got[models.SectionComprehension].Empty())
	})
}

// stallFirstProvider blocks its first completion until the context ends and
// answers every later one immediately, recording whether each call carried
// a deadline.
type stallFirstProvider struct {
	mu           sync.Mutex
	calls        int
	hadDeadlines []bool
}

func (p *stallFirstProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	_, ok := ctx.Deadline()
	p.hadDeadlines = append(p.hadDeadlines, ok)
	p.mu.Unlock()

	if first {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &llm.Response{Text: "## Analysis\nOn track."}, nil
}

func (p *stallFirstProvider) ModelID() string { return "stall" }

func TestTopicRecommendations_TimeoutPerSection(t *testing.T) {
	provider := &stallFirstProvider{}

	got := TopicRecommendations(context.Background(), provider, topicAnswers(), "1", 50*time.Millisecond)

	require.Len(t, got, 2)
	assert.True(t, got[models.SectionMath].Empty(), "stalled section times out")
	assert.Equal(t, "On track.", got[models.SectionVerbal].Analysis, "later section gets a fresh budget")
	assert.Equal(t, []bool{true, true}, provider.hadDeadlines)
}
