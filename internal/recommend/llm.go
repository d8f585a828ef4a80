package recommend

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"cogassess/internal/analytics"
	"cogassess/internal/llm"
	"cogassess/internal/models"
)

// Insight is the structured form of one LLM answer for a section.
// FullResponse always carries the raw text; the other fields are filled only
// when the matching header was found.
type Insight struct {
	Analysis        string
	Recommendations string
	StudyPlan       string
	FullResponse    string
}

// Empty reports whether the insight carries no text at all.
func (i Insight) Empty() bool {
	return i.FullResponse == "" && i.Analysis == "" && i.Recommendations == "" && i.StudyPlan == ""
}

// Structured reports whether at least one header was recognised.
func (i Insight) Structured() bool {
	return i.Analysis != "" || i.Recommendations != "" || i.StudyPlan != ""
}

const systemPrompt = "You are an experienced educational psychologist who writes concise, " +
	"practical study advice for school students based on their assessment results."

const (
	promptMaxTokens   = 1000
	promptTemperature = 0.7
)

// TopicRecommendations asks the provider for advice on every section where
// the student has topic-labelled answers. Each section is a single attempt
// bounded by callTimeout (zero means only ctx applies); a failed or empty
// completion is logged and yields an empty Insight for that section. A nil
// provider returns an empty map.
func TopicRecommendations(ctx context.Context, provider llm.Provider, answers []models.AnswerRecord, studentID string, callTimeout time.Duration) map[models.Section]Insight {
	out := make(map[models.Section]Insight)
	if provider == nil {
		return out
	}

	topics := analytics.TopicAggregate(answers, studentID)
	if len(topics) == 0 {
		return out
	}

	var own []models.AnswerRecord
	for _, a := range answers {
		if a.StudentID == studentID {
			own = append(own, a)
		}
	}
	sections, _ := analytics.Aggregate(own)

	for _, sec := range sections {
		sectionTopics := analytics.TopicsForSection(topics, sec.Section)
		if len(sectionTopics) == 0 {
			continue
		}

		req := llm.UserPrompt(systemPrompt, BuildPrompt(sec, sectionTopics))
		req.MaxTokens = promptMaxTokens
		req.Temperature = promptTemperature

		resp, err := completeWithin(ctx, provider, req, callTimeout)
		if err != nil {
			log.Printf("LLM recommendations for student %s section %s failed: %v", studentID, sec.Section, err)
			out[sec.Section] = Insight{}
			continue
		}

		insight := ParseInsight(resp.Text)
		if insight.Empty() {
			log.Printf("LLM returned an empty response for student %s section %s", studentID, sec.Section)
		}
		out[sec.Section] = insight
	}
	return out
}

func completeWithin(ctx context.Context, provider llm.Provider, req llm.Request, timeout time.Duration) (*llm.Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return provider.Complete(ctx, req)
}

// BuildPrompt renders the per-section prompt from the student's section
// score and topic breakdown.
func BuildPrompt(score analytics.SectionScore, topics []analytics.TopicScore) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A student completed the %s section of a cognitive assessment and scored %.1f%% (%d/%d correct).\n\n",
		score.Section.Name(), score.Percentage, score.Correct, score.Total)

	b.WriteString("Topic performance:\n")
	var weak []string
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s: %d/%d correct (%.1f%%)\n", t.Topic, t.Correct, t.Total, t.Accuracy)
		if t.IsWeak {
			weak = append(weak, t.Topic)
		}
	}

	if len(weak) > 0 {
		fmt.Fprintf(&b, "\nWeak topics (below %.0f%% accuracy): %s\n", analytics.WeakTopicThreshold, strings.Join(weak, ", "))
	} else {
		b.WriteString("\nNo topic is below the weak threshold.\n")
	}

	b.WriteString("\nRespond with exactly three sections using these headers:\n")
	b.WriteString("## Analysis\nA short assessment of strengths and gaps.\n")
	b.WriteString("## Recommendations\nSpecific, actionable recommendations for the weakest topics.\n")
	b.WriteString("## Study Plan\nA one-week study plan with daily activities.\n")

	return b.String()
}

// headerPattern matches a line that is only a section header, in markdown
// heading, bold, or numbered form, with an optional trailing colon.
var headerPattern = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*|\d+[.)]\s*)?(?:\*\*)?\s*(analysis|recommendations?|study\s+plan)\s*:?\s*(?:\*\*)?\s*:?\s*$`)

// ParseInsight splits free text into the three known sections by header
// matching. Text before the first header is discarded from the sections but
// kept in FullResponse.
func ParseInsight(text string) Insight {
	text = strings.TrimSpace(text)
	if text == "" {
		return Insight{}
	}

	insight := Insight{FullResponse: text}
	var current *string
	var buf []string

	flush := func() {
		if current != nil {
			*current = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			buf = append(buf, line)
			continue
		}
		flush()
		switch strings.ToLower(strings.Join(strings.Fields(m[1]), " ")) {
		case "analysis":
			current = &insight.Analysis
		case "recommendation", "recommendations":
			current = &insight.Recommendations
		case "study plan":
			current = &insight.StudyPlan
		}
	}
	flush()

	return insight
}
