package model

// Verdict is the final categorical decision for a receipt.
// It is derived from the trust score plus two hard overrides
// (fraud-report count and forensic manipulation score).
//
// Design decision: We use string-backed constants rather than iota-based
// integers because verdicts appear verbatim in the JSON report consumed
// by external clients. Encoding them as strings keeps the wire format
// self-describing and avoids a custom marshaller.
type Verdict string

const (
	// VerdictAuthentic indicates the receipt appears genuine (trust score >= 70).
	VerdictAuthentic Verdict = "authentic"

	// VerdictSuspicious indicates suspicious elements were found (trust score 50-69).
	VerdictSuspicious Verdict = "suspicious"

	// VerdictUnclear indicates the receipt could not be verified either way
	// (trust score 25-49).
	VerdictUnclear Verdict = "unclear"

	// VerdictFraudulent indicates clear signs of fraud: a trust score below 25,
	// three or more verified fraud reports, or a manipulation score of 80+.
	VerdictFraudulent Verdict = "fraudulent"
)

// ForensicVerdict categorizes the forensic engine's manipulation estimate.
type ForensicVerdict string

const (
	// ForensicAuthentic indicates no notable manipulation evidence (score < 30).
	ForensicAuthentic ForensicVerdict = "authentic"

	// ForensicMinorConcerns indicates weak manipulation evidence (score 30-49).
	ForensicMinorConcerns ForensicVerdict = "minor_concerns"

	// ForensicSuspicious indicates moderate manipulation evidence (score 50-69).
	ForensicSuspicious ForensicVerdict = "suspicious"

	// ForensicHighlySuspicious indicates strong manipulation evidence (score >= 70).
	ForensicHighlySuspicious ForensicVerdict = "highly_suspicious"
)

// ForensicVerdictFor maps a combined manipulation score to a verdict category.
// Thresholds are fixed with no hysteresis: 70, 50, 30.
func ForensicVerdictFor(manipulationScore int) ForensicVerdict {
	switch {
	case manipulationScore >= 70:
		return ForensicHighlySuspicious
	case manipulationScore >= 50:
		return ForensicSuspicious
	case manipulationScore >= 30:
		return ForensicMinorConcerns
	default:
		return ForensicAuthentic
	}
}

// RiskLevel categorizes metadata and per-account risk.
type RiskLevel string

const (
	// RiskLow indicates no or negligible risk indicators.
	RiskLow RiskLevel = "low"

	// RiskMedium indicates one or two risk indicators.
	RiskMedium RiskLevel = "medium"

	// RiskHigh indicates three or more risk indicators.
	RiskHigh RiskLevel = "high"

	// RiskUnknown indicates the risk could not be determined,
	// typically because a reputation lookup failed.
	RiskUnknown RiskLevel = "unknown"
)

// TrustLevel is the reputation producer's overall assessment of the
// accounts and merchant found in the extracted text.
type TrustLevel string

const (
	// TrustVeryLow indicates three or more verified fraud reports.
	TrustVeryLow TrustLevel = "very_low"

	// TrustLow indicates at least one verified fraud report.
	TrustLow TrustLevel = "low"

	// TrustMedium indicates no accounts were found to evaluate.
	TrustMedium TrustLevel = "medium"

	// TrustHigh indicates accounts were found with no fraud history.
	TrustHigh TrustLevel = "high"

	// TrustVeryHigh indicates a verified merchant with no fraud history.
	TrustVeryHigh TrustLevel = "very_high"

	// TrustUnknown indicates the reputation check could not complete.
	TrustUnknown TrustLevel = "unknown"
)

// VisualQuality categorizes the overall legibility of the receipt image
// as judged by the vision producer.
type VisualQuality string

const (
	// QualityExcellent indicates a sharp, fully legible image.
	QualityExcellent VisualQuality = "excellent"

	// QualityGood indicates a readable image with minor defects.
	QualityGood VisualQuality = "good"

	// QualityPoor indicates a blurry or partially illegible image.
	QualityPoor VisualQuality = "poor"
)
