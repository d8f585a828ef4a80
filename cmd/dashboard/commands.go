package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cogassess/internal/analytics"
	"cogassess/internal/database"
	"cogassess/internal/dashboard"
	"cogassess/internal/llm"
	"cogassess/internal/models"
	"cogassess/internal/repository"
	"cogassess/internal/service"
	"cogassess/migrations"

	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List students with their overall scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := loadAnswers(cmd)
		if err != nil {
			return err
		}
		_, students := analytics.Aggregate(answers)
		return dashboard.RenderStudents(cmd.OutOrStdout(), students)
	},
}

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Show class averages per section",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := loadAnswers(cmd)
		if err != nil {
			return err
		}
		return dashboard.RenderClass(cmd.OutOrStdout(), analytics.ClassAverage(analytics.Aggregate(answers)))
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the detailed analysis for one student",
	RunE:  runReport,
}

var importCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Validate a CSV and install it as the dashboard dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored answers from the database as a dashboard CSV",
	RunE:  runExport,
}

func init() {
	reportCmd.Flags().String("student", "", "Student id to analyse (required)")
	reportCmd.MarkFlagRequired("student")
	reportCmd.Flags().Bool("no-llm", false, "Skip AI topic recommendations")

	exportCmd.Flags().String("output", "", "Output file (default: the dataset path in DATA_DIR)")
}

func runReport(cmd *cobra.Command, args []string) error {
	studentID, _ := cmd.Flags().GetString("student")
	noLLM, _ := cmd.Flags().GetBool("no-llm")

	answers, err := loadAnswers(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	llmConfig := llm.ConfigFromApp(cfg)
	var provider llm.Provider
	if !noLLM {
		provider, err = llm.NewProvider(ctx, llmConfig)
		if err != nil {
			log.Printf("Warning: AI recommendations disabled: %v", err)
			provider = nil
		}
	}

	report, err := dashboard.BuildReport(ctx, answers, studentID, provider, llmConfig.Timeout)
	if err != nil {
		return err
	}
	return dashboard.Render(cmd.OutOrStdout(), report)
}

func runImport(cmd *cobra.Command, args []string) error {
	src := args[0]

	answers, err := analytics.LoadCSVFile(src)
	if err != nil {
		return err
	}

	dst := filepath.Join(cfg.DataDir, analytics.DefaultDatasetFile)
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := replaceFile(dst, func(w io.Writer) error { return copyFrom(src, w) }); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d answers for %d students into %s\n",
		len(answers), len(analytics.StudentIDs(answers)), dst)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = filepath.Join(cfg.DataDir, analytics.DefaultDatasetFile)
	}

	assessmentService, closeDB, err := openAssessmentService()
	if err != nil {
		return err
	}
	defer closeDB()

	if dir := filepath.Dir(output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var n int
	err = replaceFile(output, func(w io.Writer) error {
		var err error
		n, err = service.NewExportService(assessmentService).ExportAnswersCSV(w)
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("Exported %d answers to %s", n, output)
	return nil
}

// loadAnswers reads graded answers from the source chosen by --source
func loadAnswers(cmd *cobra.Command) ([]models.AnswerRecord, error) {
	source, _ := cmd.Flags().GetString("source")

	switch strings.ToLower(source) {
	case "csv":
		path, _ := cmd.Flags().GetString("data")
		return analytics.LoadCSVFile(path)
	case "db":
		assessmentService, closeDB, err := openAssessmentService()
		if err != nil {
			return nil, err
		}
		defer closeDB()
		return assessmentService.ListAnswers()
	}
	return nil, fmt.Errorf("unknown source %q (want csv or db)", source)
}

func openAssessmentService() (*service.AssessmentService, func(), error) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(migrations.FS); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	svc := service.NewAssessmentService(repository.NewSessionRepository(db), repository.NewAssessmentRepository(db))
	return svc, func() { db.Close() }, nil
}

// replaceFile writes dst through a temp file in the same directory and
// renames it into place, so dst is left untouched when write fails and
// may safely be the file write is reading from.
func replaceFile(dst string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", dst, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	return nil
}

func copyFrom(src string, w io.Writer) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("failed to copy dataset: %w", err)
	}
	return nil
}
