package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/receiptscan/internal/model"
	"github.com/nao1215/receiptscan/internal/signal"
	"github.com/nao1215/receiptscan/internal/synthesis"
)

// DefaultUnitTimeout is the per-producer deadline when none is configured.
const DefaultUnitTimeout = 30 * time.Second

// VisionProducer extracts text and structured fields from a receipt image.
type VisionProducer interface {
	Analyze(ctx context.Context, imageData []byte) (model.VisionSignal, error)
}

// ForensicProducer scores image-manipulation evidence. It never fails;
// undecodable input yields a zeroed signal.
type ForensicProducer interface {
	Score(ctx context.Context, imageData []byte) model.ForensicSignal
}

// MetadataProducer scores provenance-metadata risk. It never fails;
// missing metadata is itself a finding.
type MetadataProducer interface {
	Score(imageData []byte) model.MetadataSignal
}

// ReputationProducer checks accounts and merchants found in extracted text.
type ReputationProducer interface {
	Analyze(ctx context.Context, ocrText string) (model.ReputationSignal, error)
}

// Synthesizer combines producer results into the final outcome.
type Synthesizer interface {
	Synthesize(in synthesis.Inputs) synthesis.Outcome
}

// Orchestrator runs the full analysis for one receipt.
type Orchestrator struct {
	// vision, forensic, metadata, reputation are the signal producers.
	vision     VisionProducer
	forensic   ForensicProducer
	metadata   MetadataProducer
	reputation ReputationProducer

	// synthesizer combines the signals into the final outcome.
	synthesizer Synthesizer

	// unitTimeout is the per-producer deadline.
	unitTimeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithUnitTimeout sets the per-producer deadline.
func WithUnitTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.unitTimeout = timeout
		}
	}
}

// WithSynthesizer replaces the default synthesis engine.
func WithSynthesizer(s Synthesizer) Option {
	return func(o *Orchestrator) {
		o.synthesizer = s
	}
}

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator wired to the given producers.
func New(
	vision VisionProducer,
	forensic ForensicProducer,
	metadata MetadataProducer,
	reputation ReputationProducer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		vision:      vision,
		forensic:    forensic,
		metadata:    metadata,
		reputation:  reputation,
		unitTimeout: DefaultUnitTimeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.synthesizer == nil {
		o.synthesizer = synthesis.NewEngine(synthesis.WithLogger(o.logger))
	}

	return o
}

// Run analyzes one receipt image and returns the complete report.
// It always returns a structurally valid report: producer failures are
// absorbed into the execution log, and an internal failure degrades to
// a failsafe report rather than an error.
func (o *Orchestrator) Run(ctx context.Context, receiptID string, imageData []byte) (report *model.AnalysisReport) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("analysis failed",
				"receipt_id", receiptID,
				"panic", r,
			)
			report = failsafeReport(receiptID, start)
		}
	}()

	o.logger.Info("starting analysis", "receipt_id", receiptID)

	var (
		visionResult   signal.Result[model.VisionSignal]
		forensicResult signal.Result[model.ForensicSignal]
		metadataResult signal.Result[model.MetadataSignal]
	)

	// The three image producers are independent; each runs under its
	// own deadline and a failure never cancels the siblings.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		visionResult = runUnit(ctx, o.unitTimeout, func(unitCtx context.Context) (model.VisionSignal, error) {
			return o.vision.Analyze(unitCtx, imageData)
		})
	}()
	go func() {
		defer wg.Done()
		forensicResult = runUnit(ctx, o.unitTimeout, func(unitCtx context.Context) (model.ForensicSignal, error) {
			return o.forensic.Score(unitCtx, imageData), nil
		})
	}()
	go func() {
		defer wg.Done()
		metadataResult = runUnit(ctx, o.unitTimeout, func(_ context.Context) (model.MetadataSignal, error) {
			return o.metadata.Score(imageData), nil
		})
	}()
	wg.Wait()

	reputationResult, reputationLog := o.runReputation(ctx, visionResult)

	report = model.NewAnalysisReport(receiptID)
	report.AddLog(logFor(model.AgentVision, visionResult, "confidence", func(v model.VisionSignal) float64 {
		return v.Confidence
	}))
	report.AddLog(logFor(model.AgentForensic, forensicResult, "manipulation_score", func(f model.ForensicSignal) float64 {
		return float64(f.ManipulationScore)
	}))
	report.AddLog(logFor(model.AgentMetadata, metadataResult, "flags", func(m model.MetadataSignal) float64 {
		return float64(len(m.Flags))
	}))
	report.AddLog(reputationLog)

	outcome := o.synthesizer.Synthesize(synthesis.Inputs{
		Vision:     visionResult,
		Forensic:   forensicResult,
		Metadata:   metadataResult,
		Reputation: reputationResult,
	})

	report.TrustScore = outcome.TrustScore
	report.Verdict = outcome.Verdict
	report.Issues = outcome.Issues
	report.Recommendation = outcome.Recommendation
	report.ForensicDetails = forensicDetails(visionResult, forensicResult, metadataResult)
	if r, ok := reputationResult.Get(); ok {
		report.Merchant = r.Merchant
	}
	report.ProcessingTimeSeconds = time.Since(start).Seconds()

	o.logger.Info("analysis complete",
		"receipt_id", receiptID,
		"verdict", report.Verdict,
		"trust_score", report.TrustScore,
		"elapsed", time.Since(start),
	)
	return report
}

// runReputation runs the reputation producer when vision extracted text,
// and records a skipped log entry otherwise.
func (o *Orchestrator) runReputation(ctx context.Context, visionResult signal.Result[model.VisionSignal]) (signal.Result[model.ReputationSignal], model.AgentLog) {
	v, ok := visionResult.Get()
	if !ok || v.OCRText == "" {
		reason := "no extracted text available"
		if !ok {
			reason = "vision analysis unavailable"
		}
		o.logger.Debug("skipping reputation check", "reason", reason)
		return signal.Failure[model.ReputationSignal](signal.ErrSkipped), model.AgentLog{
			Agent:  model.AgentReputation,
			Status: model.StatusSkipped,
			Reason: reason,
		}
	}

	result := runUnit(ctx, o.unitTimeout, func(unitCtx context.Context) (model.ReputationSignal, error) {
		return o.reputation.Analyze(unitCtx, v.OCRText)
	})
	return result, logFor(model.AgentReputation, result, "accounts_checked", func(r model.ReputationSignal) float64 {
		return float64(len(r.AccountsAnalyzed))
	})
}

// logFor builds the execution-log entry for one producer outcome,
// carrying the producer's summary metric on success and the failure
// reason otherwise.
func logFor[T any](agent string, result signal.Result[T], metric string, value func(T) float64) model.AgentLog {
	v, ok := result.Get()
	if !ok {
		status := model.StatusFailed
		if result.TimedOut() {
			status = model.StatusTimeout
		}
		return model.AgentLog{
			Agent:  agent,
			Status: status,
			Reason: result.Err().Error(),
		}
	}

	return model.AgentLog{
		Agent:  agent,
		Status: model.StatusSuccess,
		Metric: metric,
		Value:  value(v),
	}
}

// forensicDetails summarizes the signal values for the report consumer,
// substituting zero values for failed producers.
func forensicDetails(
	visionResult signal.Result[model.VisionSignal],
	forensicResult signal.Result[model.ForensicSignal],
	metadataResult signal.Result[model.MetadataSignal],
) model.ForensicDetails {
	details := model.ForensicDetails{
		MetadataFlags: make([]string, 0),
	}
	if v, ok := visionResult.Get(); ok {
		details.OCRConfidence = v.Confidence
	}
	if f, ok := forensicResult.Get(); ok {
		details.ManipulationScore = f.ManipulationScore
	}
	if m, ok := metadataResult.Get(); ok && m.Flags != nil {
		details.MetadataFlags = m.Flags
	}
	return details
}

// failsafeReport is returned when the analysis itself breaks. It carries
// the lowest possible trust so a broken pipeline can never wave a
// receipt through.
func failsafeReport(receiptID string, start time.Time) *model.AnalysisReport {
	report := model.NewAnalysisReport(receiptID)
	report.TrustScore = 0
	report.Verdict = model.VerdictFraudulent
	report.Issues = []model.Issue{
		{
			Type:        model.IssueAnalysisError,
			Severity:    model.SeverityHigh,
			Description: "Analysis failed before completion",
		},
	}
	report.Recommendation = "Unable to verify receipt. Please try again."
	report.ForensicDetails = model.ForensicDetails{MetadataFlags: make([]string, 0)}
	report.ProcessingTimeSeconds = time.Since(start).Seconds()
	return report
}
