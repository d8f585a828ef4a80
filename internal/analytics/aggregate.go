// Package analytics turns graded answer rows into per-student and class-level
// scores, strength/weakness rankings and topic breakdowns.
package analytics

import (
	"sort"
	"strconv"

	"cogassess/internal/models"
)

// WeakTopicThreshold is the accuracy (percent) below which a topic is weak.
const WeakTopicThreshold = 50.0

// SectionScore is one student's result on one section.
type SectionScore struct {
	StudentID  string
	Section    models.Section
	Correct    int
	Total      int
	Percentage float64
}

// StudentScore is one student's result across all sections.
type StudentScore struct {
	StudentID  string
	Correct    int
	Total      int
	Percentage float64
}

// ClassAverages holds the unweighted mean of student percentages.
type ClassAverages struct {
	Sections map[models.Section]float64
	Overall  float64
}

// SectionComparison is a student's section score against the class.
type SectionComparison struct {
	Section models.Section
	Score   float64
	Avg     float64
	Diff    float64
}

// Ranking lists a student's best and worst sections relative to the class.
// Comparison is ordered by Diff descending.
type Ranking struct {
	Strengths  []models.Section
	Weaknesses []models.Section
	Comparison []SectionComparison
}

// TopicScore is a student's accuracy on one topic within a section.
type TopicScore struct {
	Section  models.Section
	Topic    string
	Correct  int
	Total    int
	Accuracy float64
	IsWeak   bool
}

type tally struct {
	correct int
	total   int
}

func (t *tally) add(correct bool) {
	t.total++
	if correct {
		t.correct++
	}
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Aggregate groups answers by (student, section) and by student. A group only
// exists when it has at least one answer. Both results are sorted by student
// id, then section.
func Aggregate(answers []models.AnswerRecord) ([]SectionScore, []StudentScore) {
	type key struct {
		student string
		section models.Section
	}
	bySection := make(map[key]*tally)
	byStudent := make(map[string]*tally)

	for _, a := range answers {
		k := key{a.StudentID, a.Section}
		if bySection[k] == nil {
			bySection[k] = &tally{}
		}
		bySection[k].add(a.IsCorrect)

		if byStudent[a.StudentID] == nil {
			byStudent[a.StudentID] = &tally{}
		}
		byStudent[a.StudentID].add(a.IsCorrect)
	}

	sections := make([]SectionScore, 0, len(bySection))
	for k, t := range bySection {
		sections = append(sections, SectionScore{
			StudentID:  k.student,
			Section:    k.section,
			Correct:    t.correct,
			Total:      t.total,
			Percentage: percent(t.correct, t.total),
		})
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].StudentID != sections[j].StudentID {
			return lessStudentID(sections[i].StudentID, sections[j].StudentID)
		}
		return sections[i].Section < sections[j].Section
	})

	students := make([]StudentScore, 0, len(byStudent))
	for id, t := range byStudent {
		students = append(students, StudentScore{
			StudentID:  id,
			Correct:    t.correct,
			Total:      t.total,
			Percentage: percent(t.correct, t.total),
		})
	}
	sort.Slice(students, func(i, j int) bool {
		return lessStudentID(students[i].StudentID, students[j].StudentID)
	})

	return sections, students
}

// ClassAverage computes the mean section percentage per section and the mean
// overall percentage. Every student counts once regardless of answer volume.
func ClassAverage(sections []SectionScore, students []StudentScore) ClassAverages {
	sums := make(map[models.Section]float64)
	counts := make(map[models.Section]int)
	for _, s := range sections {
		sums[s.Section] += s.Percentage
		counts[s.Section]++
	}

	avg := ClassAverages{Sections: make(map[models.Section]float64, len(sums))}
	for sec, sum := range sums {
		avg.Sections[sec] = sum / float64(counts[sec])
	}

	if len(students) > 0 {
		var total float64
		for _, s := range students {
			total += s.Percentage
		}
		avg.Overall = total / float64(len(students))
	}
	return avg
}

// RankStrengthsWeaknesses compares every student's section scores with the
// class average. Strengths are the two highest diffs, weaknesses the two
// lowest. With fewer than four sections the two lists can overlap.
func RankStrengthsWeaknesses(sections []SectionScore, avg ClassAverages) map[string]Ranking {
	comparisons := make(map[string][]SectionComparison)
	for _, s := range sections {
		a := avg.Sections[s.Section]
		comparisons[s.StudentID] = append(comparisons[s.StudentID], SectionComparison{
			Section: s.Section,
			Score:   s.Percentage,
			Avg:     a,
			Diff:    s.Percentage - a,
		})
	}

	out := make(map[string]Ranking, len(comparisons))
	for id, cmp := range comparisons {
		sort.SliceStable(cmp, func(i, j int) bool {
			if cmp[i].Diff != cmp[j].Diff {
				return cmp[i].Diff > cmp[j].Diff
			}
			return cmp[i].Section < cmp[j].Section
		})

		n := min(2, len(cmp))
		r := Ranking{Comparison: cmp}
		for _, c := range cmp[:n] {
			r.Strengths = append(r.Strengths, c.Section)
		}
		for _, c := range cmp[len(cmp)-n:] {
			r.Weaknesses = append(r.Weaknesses, c.Section)
		}
		out[id] = r
	}
	return out
}

// TopicAggregate groups one student's answers by (section, topic). Answers
// without a topic label are ignored, so a dataset with no topics yields an
// empty result. Output is sorted by section, then accuracy ascending, then
// topic name.
func TopicAggregate(answers []models.AnswerRecord, studentID string) []TopicScore {
	type key struct {
		section models.Section
		topic   string
	}
	groups := make(map[key]*tally)
	for _, a := range answers {
		if a.StudentID != studentID || a.Topic == "" {
			continue
		}
		k := key{a.Section, a.Topic}
		if groups[k] == nil {
			groups[k] = &tally{}
		}
		groups[k].add(a.IsCorrect)
	}

	out := make([]TopicScore, 0, len(groups))
	for k, t := range groups {
		acc := percent(t.correct, t.total)
		out = append(out, TopicScore{
			Section:  k.section,
			Topic:    k.topic,
			Correct:  t.correct,
			Total:    t.total,
			Accuracy: acc,
			IsWeak:   acc < WeakTopicThreshold,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy < out[j].Accuracy
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// TopicsForSection filters topics down to one section, keeping their order.
func TopicsForSection(topics []TopicScore, section models.Section) []TopicScore {
	var out []TopicScore
	for _, t := range topics {
		if t.Section == section {
			out = append(out, t)
		}
	}
	return out
}

// StudentIDs returns the distinct student ids in the answers, sorted.
func StudentIDs(answers []models.AnswerRecord) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range answers {
		if !seen[a.StudentID] {
			seen[a.StudentID] = true
			ids = append(ids, a.StudentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return lessStudentID(ids[i], ids[j]) })
	return ids
}

// lessStudentID orders numeric ids numerically and everything else
// lexically, with numeric ids first.
func lessStudentID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
