package main

import (
	"fmt"
	"os"

	"github.com/nao1215/receiptscan/internal/config"
	"github.com/nao1215/receiptscan/internal/database"
	"github.com/nao1215/receiptscan/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <receipt-id>",
		Short: "Show a stored analysis report",
		Long: `Report prints the latest stored analysis report for a receipt.

Reports are saved automatically when receipts are analyzed with the
analyze command or the HTTP API (unless --no-save was used).

Examples:
  # Show the latest report for a receipt
  receiptscan report 3f6f9a42-8a52-4b8e-9c37-0f1f6d2f9b11

  # Show it as JSON
  receiptscan report --json 3f6f9a42-8a52-4b8e-9c37-0f1f6d2f9b11`,
		Args: cobra.ExactArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return config.ErrConflictingReportFormats
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Reading an existing store only; never create one here.
	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	analysisReport, err := db.LatestAnalysisReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var writer report.Writer
	switch {
	case jsonOut:
		writer = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	case markdownOut:
		writer = report.NewMarkdownWriter(os.Stdout)
	default:
		writer = report.NewTextWriter(os.Stdout, report.WithVerbose(getVerboseFlag(cmd)))
	}

	_, err = writer.Write(analysisReport)
	return err
}
