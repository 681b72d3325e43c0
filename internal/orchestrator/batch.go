package orchestrator

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nao1215/receiptscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of receipts analyzed at once
// when none is configured.
const DefaultBatchConcurrency = 5

// BatchItem is one receipt to analyze in a batch run.
type BatchItem struct {
	// ReceiptID is the identifier carried into the report.
	ReceiptID string

	// ImagePath is the receipt image file to analyze.
	ImagePath string
}

// BatchAnalyzer runs analyses for multiple receipts concurrently.
//
// Design decision: We keep batching separate from the Orchestrator so
// the single-receipt path stays focused, and batch concerns (concurrency
// limits, streaming callbacks) can evolve independently.
type BatchAnalyzer struct {
	// orchestrator runs the analysis for each receipt.
	orchestrator *Orchestrator

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchAnalyzer.
type BatchOption func(*BatchAnalyzer)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchAnalyzer) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchAnalyzer) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchAnalyzer creates a batch analyzer over the given orchestrator.
func NewBatchAnalyzer(o *Orchestrator, opts ...BatchOption) *BatchAnalyzer {
	b := &BatchAnalyzer{
		orchestrator: o,
		concurrency:  DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// AnalyzeBatch analyzes multiple receipts concurrently and returns the
// reports in input order. An unreadable image file yields a failsafe
// report for that item; it never aborts the rest of the batch. The error
// return is non-nil only when the batch context was cancelled.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it is simpler and handles the concurrency limit correctly.
func (b *BatchAnalyzer) AnalyzeBatch(ctx context.Context, items []BatchItem) ([]*model.AnalysisReport, error) {
	b.logger.Info("starting batch analysis",
		"total_receipts", len(items),
		"concurrency", b.concurrency,
	)
	startTime := time.Now()

	// Pre-allocated so reports keep the input order.
	reports := make([]*model.AnalysisReport, len(items))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, item := range items {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := b.analyzeItem(ctx, item)

			mu.Lock()
			reports[i] = report
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch analysis complete",
		"total_receipts", len(items),
		"elapsed", time.Since(startTime),
	)
	return reports, err
}

// AnalyzeBatchWithCallback analyzes multiple receipts and calls the
// callback as each one completes. The callback runs on the goroutine
// that finished the analysis, so it must be safe for concurrent use.
func (b *BatchAnalyzer) AnalyzeBatchWithCallback(
	ctx context.Context,
	items []BatchItem,
	callback func(report *model.AnalysisReport, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, item := range items {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			callback(b.analyzeItem(ctx, item), i)
			return nil
		})
	}

	return g.Wait()
}

// analyzeItem reads one receipt image and runs the full analysis.
func (b *BatchAnalyzer) analyzeItem(ctx context.Context, item BatchItem) *model.AnalysisReport {
	data, err := os.ReadFile(item.ImagePath)
	if err != nil {
		b.logger.Warn("failed to read receipt image",
			"receipt_id", item.ReceiptID,
			"path", item.ImagePath,
			"error", err,
		)
		return failsafeReport(item.ReceiptID, time.Now())
	}

	return b.orchestrator.Run(ctx, item.ReceiptID, data)
}
