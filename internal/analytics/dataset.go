package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cogassess/internal/models"
)

// DefaultDatasetFile is the file name the dashboard reads inside DATA_DIR.
const DefaultDatasetFile = "student_data.csv"

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{"student_id", "section", "is_correct"}

// LoadCSV parses an answer export. Header names are matched
// case-insensitively; student_id, section and is_correct are required, topic
// and question_id are optional. is_correct accepts true/false, 1/0 and
// yes/no.
func LoadCSV(r io.Reader) ([]models.AnswerRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var answers []models.AnswerRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		studentID := field(row, "student_id")
		section := strings.ToUpper(field(row, "section"))
		if studentID == "" || section == "" {
			continue
		}

		correct, err := parseCorrect(field(row, "is_correct"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := models.AnswerRecord{
			StudentID: studentID,
			Section:   models.Section(section),
			IsCorrect: correct,
			Topic:     field(row, "topic"),
		}
		if q := field(row, "question_id"); q != "" {
			if id, err := strconv.ParseInt(q, 10, 64); err == nil {
				rec.QuestionID = id
			}
		}
		answers = append(answers, rec)
	}
	return answers, nil
}

// LoadCSVFile opens path and parses it with LoadCSV.
func LoadCSVFile(path string) ([]models.AnswerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

func parseCorrect(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "t", "y":
		return true, nil
	case "false", "0", "no", "f", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid is_correct value %q", v)
}
