package model

import "time"

// Agent names used in execution logs.
// These match the producer names wired into the orchestrator.
const (
	// AgentVision is the OCR/visual-analysis producer.
	AgentVision = "vision"

	// AgentForensic is the image-manipulation scoring engine.
	AgentForensic = "forensic"

	// AgentMetadata is the provenance-metadata risk engine.
	AgentMetadata = "metadata"

	// AgentReputation is the fraud-history and merchant lookup producer.
	AgentReputation = "reputation"
)

// AgentStatus is the outcome of one producer run in the execution log.
type AgentStatus string

const (
	// StatusSuccess means the producer returned a complete signal.
	StatusSuccess AgentStatus = "success"

	// StatusFailed means the producer returned an error.
	StatusFailed AgentStatus = "failed"

	// StatusTimeout means the producer exceeded its per-unit deadline.
	StatusTimeout AgentStatus = "timeout"

	// StatusSkipped means the producer's input dependency was unavailable
	// (reputation is skipped when vision yields no text).
	StatusSkipped AgentStatus = "skipped"
)

// AgentLog is one execution-log entry: which producer ran, how it ended,
// and a single summary metric for quick triage.
type AgentLog struct {
	// Agent is the producer name (vision, forensic, metadata, reputation).
	Agent string `json:"agent"`

	// Status is the producer's outcome.
	Status AgentStatus `json:"status"`

	// Metric names the summary metric for this producer
	// (confidence, manipulation_score, flags, accounts_checked).
	Metric string `json:"metric,omitempty"`

	// Value is the summary metric value.
	Value float64 `json:"value,omitempty"`

	// Reason describes the failure when Status is not success.
	Reason string `json:"reason,omitempty"`
}

// ForensicDetails summarizes the key signal values for the report consumer.
// This mirrors what a reviewer looks at first: how readable the image was,
// how likely it was manipulated, and which metadata flags were raised.
type ForensicDetails struct {
	// OCRConfidence is the vision producer's confidence, 0 when vision failed.
	OCRConfidence float64 `json:"ocr_confidence"`

	// ManipulationScore is the forensic engine's combined score,
	// 0 when forensics failed.
	ManipulationScore int `json:"manipulation_score"`

	// MetadataFlags lists the metadata engine's flags, empty when it failed.
	MetadataFlags []string `json:"metadata_flags"`
}

// AnalysisReport is the final analysis result for one receipt.
// It is produced exactly once per analysis request and is immutable
// after the orchestrator returns it.
//
// Design decision: We use a single flat struct rather than nesting
// per-producer sub-reports because the report is the external wire format
// consumed by clients; keeping it flat matches the documented JSON shape
// and simplifies serialization and database storage.
type AnalysisReport struct {
	// ReceiptID is the caller-supplied opaque identifier of the receipt.
	ReceiptID string `json:"receipt_id"`

	// TrustScore is the synthesized trust score, always clamped to [0,100].
	TrustScore int `json:"trust_score"`

	// Verdict is the final categorical decision.
	Verdict Verdict `json:"verdict"`

	// Issues lists every detected problem in source order.
	Issues []Issue `json:"issues"`

	// Recommendation is the action recommendation for the user.
	Recommendation string `json:"recommendation"`

	// ForensicDetails summarizes the underlying signal values.
	ForensicDetails ForensicDetails `json:"forensic_details"`

	// Merchant is the verified merchant record if reputation found one.
	Merchant *Merchant `json:"merchant"`

	// AgentLogs holds one execution-log entry per producer run.
	AgentLogs []AgentLog `json:"agent_logs"`

	// ProcessingTimeSeconds is the total wall time of the analysis.
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`

	// DateAnalyzed is the timestamp when the analysis started.
	DateAnalyzed time.Time `json:"date_analyzed"`
}

// NewAnalysisReport creates a report shell for the given receipt.
// The orchestrator fills in the remaining fields as stages complete.
func NewAnalysisReport(receiptID string) *AnalysisReport {
	return &AnalysisReport{
		ReceiptID:    receiptID,
		Issues:       make([]Issue, 0),
		AgentLogs:    make([]AgentLog, 0),
		DateAnalyzed: time.Now(),
	}
}

// AddLog appends one execution-log entry to the report.
func (r *AnalysisReport) AddLog(log AgentLog) {
	r.AgentLogs = append(r.AgentLogs, log)
}

// IssueCountBySeverity returns the number of issues at the given severity.
func (r *AnalysisReport) IssueCountBySeverity(severity IssueSeverity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}
