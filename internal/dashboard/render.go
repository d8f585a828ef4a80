package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"cogassess/internal/analytics"
	"cogassess/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func sectionLabel(s models.Section) string {
	return fmt.Sprintf("%s (%s)", s.Name(), s)
}

func sectionList(secs []models.Section) string {
	if len(secs) == 0 {
		return "-"
	}
	names := make([]string, len(secs))
	for i, s := range secs {
		names[i] = s.Name()
	}
	return strings.Join(names, ", ")
}

// RenderClass writes the class averages table.
func RenderClass(w io.Writer, class analytics.ClassAverages) error {
	fmt.Fprintln(w, "Class averages")
	tw := newTable(w)
	fmt.Fprintln(tw, "Section\tAverage")
	for _, s := range models.AllSections {
		if avg, ok := class.Sections[s]; ok {
			fmt.Fprintf(tw, "%s\t%.1f%%\n", sectionLabel(s), avg)
		}
	}
	fmt.Fprintf(tw, "Overall\t%.1f%%\n", class.Overall)
	return tw.Flush()
}

// RenderStudents writes one line per student with the overall score.
func RenderStudents(w io.Writer, students []analytics.StudentScore) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Student\tCorrect\tTotal\tScore")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", s.StudentID, s.Correct, s.Total, s.Percentage)
	}
	return tw.Flush()
}

// Render writes the full student report as plain text.
func Render(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "Detailed analysis for student %s\n\n", r.StudentID)

	if err := RenderClass(w, r.Class); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nSection performance")
	tw := newTable(w)
	fmt.Fprintln(tw, "Subject\tSection\tCorrect\tTotal\tScore\tClass Avg\tDiff")
	for _, row := range r.Sections {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%\t%.1f%%\t%+.1f%%\n",
			row.Section.Name(), row.Section, row.Correct, row.Total, row.Score, row.ClassAvg, row.Diff)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nPerformance summary")
	fmt.Fprintf(w, "Overall score: %.1f%% (class %.1f%%, %+.1f%%)\n", r.Overall.Percentage, r.Class.Overall, r.OverallDiff)
	fmt.Fprintf(w, "Strengths: %s\n", sectionList(r.Strengths))
	fmt.Fprintf(w, "Areas for improvement: %s\n", sectionList(r.Weaknesses))

	if len(r.Topics) > 0 {
		fmt.Fprintln(w, "\nTopic performance")
		tw = newTable(w)
		fmt.Fprintln(tw, "Section\tTopic\tCorrect\tTotal\tAccuracy\tWeak")
		for _, t := range r.Topics {
			weak := ""
			if t.IsWeak {
				weak = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%\t%s\n", t.Section.Name(), t.Topic, t.Correct, t.Total, t.Accuracy, weak)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.LLMInsights) > 0 {
		fmt.Fprintln(w, "\nAI topic recommendations")
		for _, s := range models.AllSections {
			insight, ok := r.LLMInsights[s]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "\n[%s]\n", sectionLabel(s))
			switch {
			case insight.Empty():
				fmt.Fprintln(w, "No recommendations available.")
			case insight.Structured():
				writeBlock(w, "Analysis", insight.Analysis)
				writeBlock(w, "Recommendations", insight.Recommendations)
				writeBlock(w, "Study Plan", insight.StudyPlan)
			default:
				fmt.Fprintln(w, insight.FullResponse)
			}
		}
	} else if !r.LLMAvailable {
		fmt.Fprintln(w, "\nAI topic recommendations are disabled (no API key configured).")
	}

	fmt.Fprintln(w, "\nPersonalized recommendations")
	for _, s := range models.AllSections {
		recs, ok := r.RuleBased[s]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n[%s]\n", sectionLabel(s))
		for _, rec := range recs {
			fmt.Fprintf(w, "- %s\n", rec)
		}
	}
	return nil
}

func writeBlock(w io.Writer, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(w, "%s:\n%s\n", title, body)
}
