package main

import (
	"os"
	"path/filepath"

	"cogassess/internal/analytics"
	"cogassess/internal/config"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "dashboard",
	Short:        "Cognitive assessment analytics",
	Long:         "Class and per-student analytics over graded quiz answers, with rule-based and AI study recommendations.",
	SilenceUsage: true,
}

func init() {
	cfg = config.Load()

	rootCmd.PersistentFlags().String("source", "csv", "Answer source: csv or db")
	rootCmd.PersistentFlags().String("data", filepath.Join(cfg.DataDir, analytics.DefaultDatasetFile), "Path to the answers CSV when --source=csv")

	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
