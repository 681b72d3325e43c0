package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/receiptscan/internal/config"
	"github.com/nao1215/receiptscan/internal/database"
	"github.com/nao1215/receiptscan/internal/model"
	"github.com/nao1215/receiptscan/internal/orchestrator"
	"github.com/nao1215/receiptscan/internal/report"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [image-path]...",
		Short: "Analyze receipt images for signs of fraud",
		Long: `Analyze runs the full fraud analysis on one or more receipt images.

Each receipt is checked by four independent producers:
- Vision: text extraction and visual anomaly detection (OpenAI)
- Forensic: image manipulation scoring (ELA, noise, compression, edges)
- Metadata: provenance inspection (editing software, stripped EXIF)
- Reputation: fraud-history lookups for accounts found on the receipt

Examples:
  # Analyze a single receipt
  receiptscan analyze receipt.jpg

  # Analyze multiple receipts concurrently
  receiptscan analyze receipt1.jpg receipt2.jpg receipt3.jpg

  # Analyze every image listed in a file (one path per line)
  receiptscan analyze --list receipts.txt

  # Output JSON report
  receiptscan analyze --json receipt.jpg

  # Use a custom configuration file
  receiptscan analyze -c myconfig.yaml receipt.jpg

Configuration file (.receiptscan) example:
  vision_model: gpt-4o-mini
  unit_timeout_seconds: 30
  editing_software:
    - photoshop
    - gimp`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Analysis behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultUnitTimeout,
		"Per-producer timeout during analysis")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses")
	cmd.Flags().StringP("list", "l", "",
		"File containing receipt image paths, one per line")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .receiptscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().Bool("no-save", false,
		"Do not persist analysis reports to the database")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalyze(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.UnitTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	// Positional arguments plus any list file entries
	cfg.Targets = args
	listFile, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		listed, err := readTargetList(listFile)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
}

// loadConfigOverrides applies the YAML configuration file when one exists.
// An explicitly specified file must exist; the default search is best-effort.
func loadConfigOverrides(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cf.Apply(cfg)
	return nil
}

// readTargetList reads image paths from a file, one per line.
// Blank lines and lines starting with '#' are ignored.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}
	return targets, nil
}

// runAnalyze executes the analysis for all configured targets.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	o := buildOrchestrator(cfg, db, logger)

	items := make([]orchestrator.BatchItem, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		items = append(items, orchestrator.BatchItem{
			ReceiptID: uuid.NewString(),
			ImagePath: target,
		})
	}

	if len(items) > 1 && cfg.BatchSize > 1 {
		return runBatchAnalyze(ctx, cfg, o, db, items, logger)
	}
	return runSequentialAnalyze(ctx, cfg, o, db, items, logger)
}

// runSequentialAnalyze analyzes receipts one at a time.
func runSequentialAnalyze(ctx context.Context, cfg *config.Config, o *orchestrator.Orchestrator, db *database.FraudDB, items []orchestrator.BatchItem, logger *slog.Logger) error {
	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Analyzing %s...\n", item.ImagePath)
		startTime := time.Now()

		data, err := os.ReadFile(item.ImagePath) //nolint:gosec // User-provided image path is intentional
		if err != nil {
			logger.Error("failed to read image", "path", item.ImagePath, "error", err)
			fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", item.ImagePath, err)
			continue
		}

		analysisReport := o.Run(ctx, item.ReceiptID, data)

		elapsed := time.Since(startTime)
		fmt.Printf("Analysis completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, analysisReport); err != nil {
			logger.Error("report output failed", "receipt_id", item.ReceiptID, "error", err)
		}

		if err := saveAnalysisReport(ctx, cfg, db, analysisReport, logger); err != nil {
			logger.Error("failed to save analysis report", "receipt_id", item.ReceiptID, "error", err)
		}
	}

	return nil
}

// runBatchAnalyze analyzes multiple receipts concurrently.
func runBatchAnalyze(ctx context.Context, cfg *config.Config, o *orchestrator.Orchestrator, db *database.FraudDB, items []orchestrator.BatchItem, logger *slog.Logger) error {
	fmt.Printf("Starting batch analysis of %d receipts (concurrency: %d)...\n\n",
		len(items), cfg.BatchSize)
	startTime := time.Now()

	ba := orchestrator.NewBatchAnalyzer(o,
		orchestrator.WithConcurrency(cfg.BatchSize),
		orchestrator.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	err := ba.AnalyzeBatchWithCallback(ctx, items, func(analysisReport *model.AnalysisReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Analysis completed: %s (%s, score %d)\n",
			index+1, len(items), items[index].ImagePath, analysisReport.Verdict, analysisReport.TrustScore)

		if err := outputReport(cfg, analysisReport); err != nil {
			logger.Error("report output failed", "receipt_id", analysisReport.ReceiptID, "error", err)
		}

		if err := saveAnalysisReport(ctx, cfg, db, analysisReport, logger); err != nil {
			logger.Error("failed to save analysis report", "receipt_id", analysisReport.ReceiptID, "error", err)
		}
	})

	fmt.Printf("\nBatch analysis completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return err
}

// outputReport outputs the analysis report in the requested format.
func outputReport(cfg *config.Config, analysisReport *model.AnalysisReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain customer data; owner-only permissions.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(analysisReport)
	return err
}

// saveAnalysisReport persists the report to the database when enabled.
func saveAnalysisReport(ctx context.Context, cfg *config.Config, db *database.FraudDB, analysisReport *model.AnalysisReport, logger *slog.Logger) error {
	if !cfg.SaveToDB || db == nil {
		return nil
	}

	if err := db.SaveAnalysisReport(ctx, analysisReport); err != nil {
		return fmt.Errorf("failed to save analysis report: %w", err)
	}

	logger.Info("analysis report saved", "receipt_id", analysisReport.ReceiptID)
	return nil
}
