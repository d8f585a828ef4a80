// Package recommend produces study recommendations from aggregated scores,
// either from fixed per-section rules or from an LLM.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cogassess/internal/analytics"
	"cogassess/internal/models"
)

// StrengthThreshold is the topic accuracy above which a strength note is added.
const StrengthThreshold = 75.0

// topicTip is a canned tip rendered as
// "<lead> **<topic>**<after> (<c>/<n> correct, <acc>%). <advice>".
type topicTip struct {
	keywords []string
	lead     string
	after    string
	advice   string
}

type sectionRules struct {
	tips     []topicTip
	fallback topicTip
	// low is used when the section score is below 50, high otherwise.
	low  []string
	high []string
}

var rulesBySection = map[models.Section]sectionRules{
	models.SectionMath: {
		tips: []topicTip{
			{[]string{"algebra", "algebraic expressions", "equations"}, "Focus on", "",
				"Practice solving equations step-by-step, with special attention to sign rules and order of operations. Use Khan Academy's Algebra 1 course, sections 2-4."},
			{[]string{"geometry", "shapes", "areas", "volumes"}, "Strengthen", "",
				"Review properties of triangles, circles, and quadrilaterals. Practice calculating areas and volumes using formulas. Complete 10 geometry problems daily from MathIsFun.com."},
			{[]string{"number", "arithmetic", "operations", "fractions"}, "Improve", "",
				"Practice multiplication, division, and fraction operations. Try timed arithmetic drills at MathDrills.com to build fluency."},
			{[]string{"data", "statistics", "graphs", "probability"}, "Work on", "",
				"Practice interpreting graphs, calculating averages, and solving probability problems. Use StatisticsByJim.com for tutorials on basic statistics concepts."},
		},
		fallback: topicTip{nil, "Strengthen", "",
			"Practice with a variety of problem types and review concepts before your next assessment."},
		low: []string{
			"**Study Plan**: Set aside 30 minutes daily for math practice. Start with basic concepts and gradually increase difficulty. Use Khan Academy's Math Fundamentals course.",
			"**Resources**: Download the 'Photomath' app to see step-by-step solutions to problems. Visit PurpleMath.com for clear explanations of algebra concepts.",
		},
		high: []string{
			"**Challenge yourself**: Try more complex word problems that combine multiple concepts. Attempt competition-level math problems from sites like ArtOfProblemSolving.com.",
		},
	},
	models.SectionVerbal: {
		tips: []topicTip{
			{[]string{"vocabulary", "words", "word meaning"}, "Build your", "",
				"Create weekly flashcards with 20 new words. Use Quizlet.com for vocabulary drills focusing on word roots, prefixes and suffixes."},
			{[]string{"grammar", "syntax", "sentences"}, "Focus on", "",
				"Review subject-verb agreement, verb tenses, and sentence structure. Complete daily grammar exercises at Purdue OWL writing lab."},
			{[]string{"comprehension", "reading", "passages"}, "Improve", "",
				"Practice active reading: highlight main ideas, summarize paragraphs, and identify supporting details. Read 20 minutes daily from various genres."},
			{[]string{"analogies", "word relationships", "comparisons"}, "Work on", "",
				"Study different types of analogies (part-whole, cause-effect, etc.). Create your own analogies to strengthen understanding of relationships."},
		},
		fallback: topicTip{nil, "Strengthen", "",
			"Focus on building a stronger foundation in this area by practicing regularly with targeted exercises."},
		low: []string{
			"**Daily routine**: Read varied materials for 20 minutes daily. Keep a vocabulary journal of unfamiliar words. Use Vocabulary.com for interactive word practice.",
			"**Resources**: Use the Merriam-Webster app for word lookups. Visit NoRedInk.com for grammar practice with immediate feedback.",
		},
		high: []string{
			"**Advanced practice**: Read college-level materials and identify rhetorical devices. Write short analyses of passages to deepen comprehension.",
		},
	},
	models.SectionNonVerbal: {
		tips: []topicTip{
			{[]string{"patterns", "pattern recognition", "sequence"}, "Practice", "",
				"Work on identifying rules in number and shape sequences. Complete 5 pattern problems daily from LumosityBrain.com."},
			{[]string{"spatial", "rotation", "3d", "visualization"}, "Enhance", "",
				"Practice mental rotation exercises with 3D shapes. Use the Spatial Reasoning Trainer app for 10 minutes daily."},
			{[]string{"analogies", "visual analogies", "figures"}, "Focus on", "",
				"Practice identifying the relationships between shapes, patterns, and figures. Complete one page of visual analogies from TestPrep-Online.com daily."},
			{[]string{"matrices", "grid", "logic"}, "Improve", "",
				"Practice completing logical sequences in grids. Try solving Raven's Progressive Matrices style problems weekly."},
		},
		fallback: topicTip{nil, "Strengthen", "",
			"Develop your pattern recognition skills through regular practice with diverse problem types."},
		low: []string{
			"**Practice regimen**: Spend 15 minutes daily on pattern recognition exercises. Use puzzle books and apps like BrainHQ to develop visual reasoning.",
			"**Resources**: Try the app 'NeuroNation' for spatial reasoning games. Visit Mensa.org for free practice problems.",
		},
		high: []string{
			"**Next level**: Challenge yourself with complex logic puzzles and 3D visualization exercises. Try solving Rubik's Cube to enhance spatial reasoning.",
		},
	},
	models.SectionComprehension: {
		tips: []topicTip{
			{[]string{"main idea", "central theme", "summary"}, "Focus on identifying the", "",
				"Practice summarizing paragraphs in 1-2 sentences. Use ReadTheory.org passages with main idea questions."},
			{[]string{"details", "supporting evidence", "facts"}, "Work on recognizing", "",
				"Take notes while reading to identify key details. Practice with Newsela.com articles, highlighting specific facts."},
			{[]string{"inference", "implied meaning", "conclusion"}, "Develop", " skills",
				"Practice reading between the lines and drawing logical conclusions. Use CommonLit.org passages with inference questions."},
			{[]string{"author", "purpose", "tone", "perspective"}, "Improve understanding of", "",
				"Analyze how word choice reveals the author's intent. Practice with ReadWorks.org passages focusing on tone and purpose."},
		},
		fallback: topicTip{nil, "Enhance", " skills",
			"Practice active reading strategies and develop your ability to analyze text at multiple levels."},
		low: []string{
			"**Reading strategy**: Use the SQ3R method (Survey, Question, Read, Recite, Review) when approaching new texts. Start with shorter passages and gradually increase length.",
			"**Resources**: Use NewsELA.com for leveled reading passages. Try ReadTheory.org for comprehension practice with instant feedback.",
		},
		high: []string{
			"**Analytical reading**: Practice analyzing author's purpose, bias, and tone. Compare multiple texts on the same topic to identify different perspectives.",
		},
	},
}

// SectionRecommendations returns, in order: a performance assessment
// against the class average, tips for the two weakest topics of the section,
// a strength note when the best topic is above StrengthThreshold, and a
// general study plan for the score band. Topics from other sections are
// ignored.
func SectionRecommendations(section models.Section, score, avg float64, topics []analytics.TopicScore) []string {
	recs := []string{PerformanceAssessment(section, score, avg)}
	rules, known := rulesBySection[section]

	sectionTopics := analytics.TopicsForSection(topics, section)
	if len(sectionTopics) > 0 {
		if known {
			weakest := sortedByAccuracy(sectionTopics, true)
			for _, t := range weakest[:min(2, len(weakest))] {
				recs = append(recs, rules.tipFor(t))
			}
		}

		strongest := sortedByAccuracy(sectionTopics, false)[0]
		if strongest.Accuracy > StrengthThreshold {
			recs = append(recs, fmt.Sprintf(
				"**Strength recognized**: Great work in %s (%s). Continue to build on this strength with more advanced material.",
				strongest.Topic, topicStats(strongest)))
		}
	}

	if known {
		if score < 50 {
			recs = append(recs, rules.low...)
		} else {
			recs = append(recs, rules.high...)
		}
	}
	return recs
}

// PerformanceAssessment describes a section score relative to the class.
func PerformanceAssessment(section models.Section, score, avg float64) string {
	name := section.Name()
	diff := score - avg
	switch {
	case diff > 15:
		return fmt.Sprintf("Excellent performance in %s. Your score (%.1f%%) is %.1f%% above average (%.1f%%).", name, score, diff, avg)
	case diff > 5:
		return fmt.Sprintf("Good performance in %s. Your score (%.1f%%) is %.1f%% above average (%.1f%%).", name, score, diff, avg)
	case diff > -5:
		return fmt.Sprintf("Average performance in %s. Your score (%.1f%%) is near the class average (%.1f%%).", name, score, avg)
	case diff > -15:
		return fmt.Sprintf("Below average performance in %s. Your score (%.1f%%) is %.1f%% below average (%.1f%%).", name, score, math.Abs(diff), avg)
	default:
		return fmt.Sprintf("Significant improvement needed in %s. Your score (%.1f%%) is %.1f%% below average (%.1f%%).", name, score, math.Abs(diff), avg)
	}
}

func (r sectionRules) tipFor(t analytics.TopicScore) string {
	tip := r.fallback
	lower := strings.ToLower(t.Topic)
match:
	for _, candidate := range r.tips {
		for _, kw := range candidate.keywords {
			if strings.Contains(lower, kw) {
				tip = candidate
				break match
			}
		}
	}
	return fmt.Sprintf("%s **%s**%s (%s). %s", tip.lead, t.Topic, tip.after, topicStats(t), tip.advice)
}

func topicStats(t analytics.TopicScore) string {
	return fmt.Sprintf("%d/%d correct, %.1f%%", t.Correct, t.Total, t.Accuracy)
}

// sortedByAccuracy returns a copy ordered by accuracy (ascending or
// descending) with ties broken by topic name.
func sortedByAccuracy(topics []analytics.TopicScore, ascending bool) []analytics.TopicScore {
	out := make([]analytics.TopicScore, len(topics))
	copy(out, topics)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			if ascending {
				return out[i].Accuracy < out[j].Accuracy
			}
			return out[i].Accuracy > out[j].Accuracy
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
