package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogassess/internal/analytics"
	"cogassess/internal/models"
)

func TestPerformanceAssessment(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		avg   float64
		want  string
	}{
		{"excellent", 90, 60, "Excellent performance in Math. Your score (90.0%) is 30.0% above average (60.0%)."},
		{"good", 70, 60, "Good performance in Math. Your score (70.0%) is 10.0% above average (60.0%)."},
		{"average", 62, 60, "Average performance in Math. Your score (62.0%) is near the class average (60.0%)."},
		{"below", 50, 60, "Below average performance in Math. Your score (50.0%) is 10.0% below average (60.0%)."},
		{"significant", 20, 60, "Significant improvement needed in Math. Your score (20.0%) is 40.0% below average (60.0%)."},
		{"exactly five above is average", 65, 60, "Average performance in Math. Your score (65.0%) is near the class average (60.0%)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PerformanceAssessment(models.SectionMath, tt.score, tt.avg))
		})
	}
}

func TestSectionRecommendations_NoTopics(t *testing.T) {
	low := SectionRecommendations(models.SectionVerbal, 40, 60, nil)
	require.Len(t, low, 3)
	assert.True(t, strings.HasPrefix(low[0], "Significant improvement needed in Verbal."))
	assert.True(t, strings.HasPrefix(low[1], "**Daily routine**"))
	assert.True(t, strings.HasPrefix(low[2], "**Resources**"))

	high := SectionRecommendations(models.SectionVerbal, 80, 60, nil)
	require.Len(t, high, 2)
	assert.True(t, strings.HasPrefix(high[1], "**Advanced practice**"))
}

func TestSectionRecommendations_Topics(t *testing.T) {
	topics := []analytics.TopicScore{
		{Section: "A", Topic: "Number Operations", Correct: 1, Total: 4, Accuracy: 25},
		{Section: "A", Topic: "Geometry", Correct: 0, Total: 2, Accuracy: 0},
		{Section: "A", Topic: "Algebra", Correct: 4, Total: 5, Accuracy: 80},
		{Section: "B", Topic: "Vocabulary", Correct: 0, Total: 3, Accuracy: 0},
	}

	recs := SectionRecommendations(models.SectionMath, 45, 50, topics)
	require.Len(t, recs, 6)

	assert.Equal(t, "Strengthen **Geometry** (0/2 correct, 0.0%). Review properties of triangles, circles, and quadrilaterals. Practice calculating areas and volumes using formulas. Complete 10 geometry problems daily from MathIsFun.com.", recs[1])
	assert.Equal(t, "Improve **Number Operations** (1/4 correct, 25.0%). Practice multiplication, division, and fraction operations. Try timed arithmetic drills at MathDrills.com to build fluency.", recs[2])
	assert.Equal(t, "**Strength recognized**: Great work in Algebra (4/5 correct, 80.0%). Continue to build on this strength with more advanced material.", recs[3])
	assert.True(t, strings.HasPrefix(recs[4], "**Study Plan**"))

	for _, r := range recs {
		assert.NotContains(t, r, "Vocabulary")
	}
}

func TestSectionRecommendations_FallbackAndSuffix(t *testing.T) {
	topics := []analytics.TopicScore{
		{Section: "D", Topic: "Drawing Inferences", Correct: 1, Total: 2, Accuracy: 50},
		{Section: "D", Topic: "Poetry", Correct: 0, Total: 1, Accuracy: 0},
	}

	recs := SectionRecommendations(models.SectionComprehension, 60, 60, topics)
	require.Len(t, recs, 4)
	assert.Equal(t, "Enhance **Poetry** skills (0/1 correct, 0.0%). Practice active reading strategies and develop your ability to analyze text at multiple levels.", recs[1])
	assert.Equal(t, "Develop **Drawing Inferences** skills (1/2 correct, 50.0%). Practice reading between the lines and drawing logical conclusions. Use CommonLit.org passages with inference questions.", recs[2])
	assert.True(t, strings.HasPrefix(recs[3], "**Analytical reading**"))
}

func TestSectionRecommendations_KeywordMatchIsCaseInsensitive(t *testing.T) {
	topics := []analytics.TopicScore{
		{Section: "C", Topic: "3D ROTATION", Correct: 1, Total: 3, Accuracy: 33.3333},
	}
	recs := SectionRecommendations(models.SectionNonVerbal, 30, 30, topics)
	assert.Equal(t, "Enhance **3D ROTATION** (1/3 correct, 33.3%). Practice mental rotation exercises with 3D shapes. Use the Spatial Reasoning Trainer app for 10 minutes daily.", recs[1])
}

func TestSectionRecommendations_UnknownSection(t *testing.T) {
	recs := SectionRecommendations(models.Section("E"), 50, 50, nil)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Average performance in E.")
}
