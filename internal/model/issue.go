package model

import "fmt"

// IssueKind identifies the source category of a detected issue.
type IssueKind string

const (
	// IssueVisualAnomaly is a suspicious visual element reported by the
	// vision producer (e.g., misaligned text, inconsistent fonts).
	IssueVisualAnomaly IssueKind = "visual_anomaly"

	// IssuePoorImageQuality indicates the vision confidence fell below the
	// usable threshold, reducing the reliability of extracted data.
	IssuePoorImageQuality IssueKind = "poor_image_quality"

	// IssueForensicFinding is a manipulation technique detected by the
	// forensic engine (e.g., inconsistent noise patterns).
	IssueForensicFinding IssueKind = "forensic_finding"

	// IssueMetadataIssue is a provenance flag raised by the metadata engine
	// (e.g., editing software, stripped EXIF data).
	IssueMetadataIssue IssueKind = "metadata_issue"

	// IssueFraudHistory indicates one or more verified fraud reports exist
	// for an account found on the receipt.
	IssueFraudHistory IssueKind = "fraud_history"

	// IssueAnalysisError indicates the analysis itself failed, partially or
	// entirely. The report carrying it is a best-effort result.
	IssueAnalysisError IssueKind = "analysis_error"
)

// IssueSeverity represents how strongly an issue weighs against authenticity.
//
// Design decision: We use iota-based constants with a String() method rather
// than raw strings so severities sort and compare cheaply, while MarshalJSON
// keeps the wire format human-readable ("low", "medium", "high").
type IssueSeverity int

const (
	// SeverityLow indicates a minor concern that rarely changes the verdict alone.
	SeverityLow IssueSeverity = iota

	// SeverityMedium indicates a concern that warrants manual review.
	SeverityMedium

	// SeverityHigh indicates a strong fraud indicator.
	SeverityHigh
)

// String returns the lowercase wire representation of the severity.
func (s IssueSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity as its string form.
func (s IssueSeverity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its string form.
func (s *IssueSeverity) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"low"`:
		*s = SeverityLow
	case `"medium"`:
		*s = SeverityMedium
	case `"high"`:
		*s = SeverityHigh
	default:
		return fmt.Errorf("unknown issue severity: %s", data)
	}
	return nil
}

// Issue is a single detected problem included in the final report.
// Issues are ordered by source (vision, forensic, metadata, reputation)
// and are not deduplicated across sources.
type Issue struct {
	// Type identifies the source category of the issue.
	Type IssueKind `json:"type"`

	// Severity is how strongly the issue weighs against authenticity.
	Severity IssueSeverity `json:"severity"`

	// Description is the human-readable explanation of the finding.
	Description string `json:"description"`
}
