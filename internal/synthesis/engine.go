package synthesis

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/receiptscan/internal/model"
	"github.com/nao1215/receiptscan/internal/signal"
)

const (
	// baseScore is the starting trust score before any signal adjustment.
	baseScore = 75.0

	// defaultConfidence stands in for the vision confidence when the
	// vision producer failed, making its adjustment term zero.
	defaultConfidence = 75.0

	// confidenceWeight scales the vision-confidence deviation.
	confidenceWeight = 0.25

	// manipulationWeight scales the forensic manipulation penalty.
	manipulationWeight = 0.25

	// flagPenalty is the per-flag metadata deduction.
	flagPenalty = 3.0

	// fraudReportPenalty is the per-report reputation deduction.
	fraudReportPenalty = 10.0

	// verifiedMerchantBonus rewards a verified-merchant match.
	verifiedMerchantBonus = 15.0

	// extractionBonus rewards substantial extracted text.
	extractionBonus = 5.0

	// extractionBonusMinChars is the text length the bonus requires.
	extractionBonusMinChars = 20

	// poorQualityThreshold is the vision confidence below which a
	// poor-image-quality issue is raised.
	poorQualityThreshold = 40.0

	// fraudOverrideReports and manipulationOverrideScore trigger the
	// fraudulent verdict regardless of trust score.
	fraudOverrideReports     = 3
	manipulationOverrideScore = 80
)

// Inputs carries one result per producer. A failed or skipped producer
// is a plain Failure; synthesis never needs to know why it failed.
type Inputs struct {
	Vision     signal.Result[model.VisionSignal]
	Forensic   signal.Result[model.ForensicSignal]
	Metadata   signal.Result[model.MetadataSignal]
	Reputation signal.Result[model.ReputationSignal]
}

// Outcome is the synthesized portion of the final report.
type Outcome struct {
	// TrustScore is the combined score, clamped to [0,100].
	TrustScore int

	// Verdict is the categorical decision derived from the score and
	// the hard overrides.
	Verdict model.Verdict

	// Issues lists every detected problem in source order: visual
	// anomalies, image quality, forensic techniques, metadata flags,
	// fraud history.
	Issues []model.Issue

	// Recommendation is the action recommendation for the user.
	Recommendation string
}

// Engine synthesizes producer signals into a final outcome.
type Engine struct {
	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a synthesis engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Synthesize combines the producer results into a trust score, verdict,
// issue list, and recommendation. It never fails: an internal panic
// degrades to a neutral outcome that asks for manual verification.
func (e *Engine) Synthesize(in Inputs) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("synthesis: internal error, returning neutral outcome", "panic", r)
			outcome = neutralOutcome()
		}
	}()

	score := e.trustScore(in)
	issues := compileIssues(in)
	verdict := determineVerdict(score, in)

	outcome = Outcome{
		TrustScore:     score,
		Verdict:        verdict,
		Issues:         issues,
		Recommendation: recommendationFor(verdict, score, len(issues)),
	}

	e.logger.Debug("synthesis: completed",
		"trust_score", score,
		"verdict", verdict,
		"issues", len(issues),
	)
	return outcome
}

// trustScore computes the weighted trust score. Each term only applies
// when its producer succeeded; a missing signal contributes its neutral
// default instead of a penalty.
func (e *Engine) trustScore(in Inputs) int {
	score := baseScore

	confidence := defaultConfidence
	if v, ok := in.Vision.Get(); ok {
		confidence = v.Confidence
	}
	score += (confidence - defaultConfidence) * confidenceWeight

	if f, ok := in.Forensic.Get(); ok {
		score -= float64(f.ManipulationScore) * manipulationWeight
	}

	if m, ok := in.Metadata.Get(); ok {
		score -= float64(len(m.Flags)) * flagPenalty
	}

	if r, ok := in.Reputation.Get(); ok {
		score -= float64(r.TotalFraudReports) * fraudReportPenalty
		if r.Merchant != nil && r.Merchant.Verified {
			score += verifiedMerchantBonus
		}
	}

	if v, ok := in.Vision.Get(); ok && len(v.OCRText) > extractionBonusMinChars {
		score += extractionBonus
	}

	return clampScore(score)
}

// determineVerdict applies the hard overrides first, then the score bands.
func determineVerdict(trustScore int, in Inputs) model.Verdict {
	fraudReports := 0
	if r, ok := in.Reputation.Get(); ok {
		fraudReports = r.TotalFraudReports
	}

	manipulationScore := 0
	if f, ok := in.Forensic.Get(); ok {
		manipulationScore = f.ManipulationScore
	}

	switch {
	case fraudReports >= fraudOverrideReports || manipulationScore >= manipulationOverrideScore:
		return model.VerdictFraudulent
	case trustScore >= 70:
		return model.VerdictAuthentic
	case trustScore >= 50:
		return model.VerdictSuspicious
	case trustScore >= 25:
		return model.VerdictUnclear
	default:
		return model.VerdictFraudulent
	}
}

// compileIssues collects issues from every successful producer, in a
// fixed source order so reports are reproducible.
func compileIssues(in Inputs) []model.Issue {
	issues := make([]model.Issue, 0)

	if v, ok := in.Vision.Get(); ok {
		for _, anomaly := range v.VisualAnomalies {
			issues = append(issues, model.Issue{
				Type:        model.IssueVisualAnomaly,
				Severity:    model.SeverityMedium,
				Description: anomaly,
			})
		}
		if v.Confidence < poorQualityThreshold {
			issues = append(issues, model.Issue{
				Type:        model.IssuePoorImageQuality,
				Severity:    model.SeverityMedium,
				Description: "Image quality is poor, reducing confidence",
			})
		}
	}

	if f, ok := in.Forensic.Get(); ok {
		for _, technique := range f.TechniquesDetected {
			issues = append(issues, model.Issue{
				Type:        model.IssueForensicFinding,
				Severity:    model.SeverityHigh,
				Description: "Detected: " + technique,
			})
		}
	}

	if m, ok := in.Metadata.Get(); ok {
		for _, flag := range m.Flags {
			issues = append(issues, model.Issue{
				Type:        model.IssueMetadataIssue,
				Severity:    model.SeverityMedium,
				Description: flag,
			})
		}
	}

	if r, ok := in.Reputation.Get(); ok && r.TotalFraudReports > 0 {
		issues = append(issues, model.Issue{
			Type:        model.IssueFraudHistory,
			Severity:    model.SeverityHigh,
			Description: fmt.Sprintf("Account has %d verified fraud report(s)", r.TotalFraudReports),
		})
	}

	return issues
}

// neutralOutcome is the degraded result returned when synthesis itself
// fails: neither trusted nor condemned, flagged for manual review.
func neutralOutcome() Outcome {
	return Outcome{
		TrustScore: 50,
		Verdict:    model.VerdictUnclear,
		Issues: []model.Issue{
			{
				Type:        model.IssueAnalysisError,
				Severity:    model.SeverityMedium,
				Description: "Unable to complete full analysis",
			},
		},
		Recommendation: "Manual verification recommended",
	}
}

// clampScore truncates and clamps a raw score to [0,100].
func clampScore(score float64) int {
	s := int(score)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
