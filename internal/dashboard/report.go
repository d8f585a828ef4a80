// Package dashboard assembles and renders the per-student analytics report.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cogassess/internal/analytics"
	"cogassess/internal/llm"
	"cogassess/internal/models"
	"cogassess/internal/recommend"
)

// ErrStudentNotFound is returned when the dataset has no rows for a student.
var ErrStudentNotFound = errors.New("student not found in dataset")

// SectionRow is one line of the student's section table.
type SectionRow struct {
	Section  models.Section
	Correct  int
	Total    int
	Score    float64
	ClassAvg float64
	Diff     float64
}

// Report is everything the dashboard shows for one student.
type Report struct {
	StudentID string

	Class    analytics.ClassAverages
	Sections []SectionRow

	Overall      analytics.StudentScore
	OverallDiff  float64
	Strengths    []models.Section
	Weaknesses   []models.Section
	Topics       []analytics.TopicScore
	RuleBased    map[models.Section][]string
	LLMInsights  map[models.Section]recommend.Insight
	LLMAvailable bool
}

// BuildReport computes the report for studentID. provider may be nil, in
// which case the LLM insights are left empty. llmTimeout bounds each
// per-section completion separately.
func BuildReport(ctx context.Context, answers []models.AnswerRecord, studentID string, provider llm.Provider, llmTimeout time.Duration) (*Report, error) {
	sections, students := analytics.Aggregate(answers)
	class := analytics.ClassAverage(sections, students)

	var overall *analytics.StudentScore
	for i := range students {
		if students[i].StudentID == studentID {
			overall = &students[i]
			break
		}
	}
	if overall == nil {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}

	rank := analytics.RankStrengthsWeaknesses(sections, class)[studentID]
	topics := analytics.TopicAggregate(answers, studentID)

	report := &Report{
		StudentID:    studentID,
		Class:        class,
		Overall:      *overall,
		OverallDiff:  overall.Percentage - class.Overall,
		Strengths:    rank.Strengths,
		Weaknesses:   rank.Weaknesses,
		Topics:       topics,
		RuleBased:    make(map[models.Section][]string),
		LLMAvailable: provider != nil,
	}

	for _, s := range sections {
		if s.StudentID != studentID {
			continue
		}
		avg := class.Sections[s.Section]
		report.Sections = append(report.Sections, SectionRow{
			Section:  s.Section,
			Correct:  s.Correct,
			Total:    s.Total,
			Score:    s.Percentage,
			ClassAvg: avg,
			Diff:     s.Percentage - avg,
		})
		report.RuleBased[s.Section] = recommend.SectionRecommendations(s.Section, s.Percentage, avg, topics)
	}

	report.LLMInsights = recommend.TopicRecommendations(ctx, provider, answers, studentID, llmTimeout)

	return report, nil
}
