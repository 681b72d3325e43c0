package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/receiptscan/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and severity indicators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose enables the execution log and signal details in the output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with execution-log details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeVerdict(&sb, report)
	w.writeIssues(&sb, report)
	w.writeDetails(&sb, report)
	if w.verbose {
		w.writeAgentLogs(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with receipt information.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     RECEIPT ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Receipt ID:     %s\n", report.ReceiptID))
	sb.WriteString(fmt.Sprintf("Analyzed At:    %s\n", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:        %.2fs\n", report.ProcessingTimeSeconds))
	sb.WriteString("\n")
}

// writeVerdict writes the verdict and trust score section.
func (w *TextWriter) writeVerdict(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VERDICT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Verdict:     %s\n", strings.ToUpper(string(report.Verdict))))
	sb.WriteString(fmt.Sprintf("  Trust Score: %d/100\n", report.TrustScore))
	if report.Merchant != nil {
		sb.WriteString(fmt.Sprintf("  Merchant:    %s (verified: %t)\n", report.Merchant.Name, report.Merchant.Verified))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", report.Recommendation))
	sb.WriteString("\n")
}

// writeIssues writes all issues grouped by severity, highest first.
func (w *TextWriter) writeIssues(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Issues) == 0 {
		sb.WriteString("  No issues detected\n\n")
		return
	}

	severities := []model.IssueSeverity{
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
	}

	for _, severity := range severities {
		count := report.IssueCountBySeverity(severity)
		if count == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("[%s] %s\n", severityIndicator(severity), strings.ToUpper(severity.String())))
		for _, issue := range report.Issues {
			if issue.Severity != severity {
				continue
			}
			sb.WriteString(fmt.Sprintf("  * %s\n", issue.Description))
			sb.WriteString(fmt.Sprintf("    Type: %s\n", issue.Type))
		}
		sb.WriteString("\n")
	}
}

// writeDetails writes the signal summary section.
func (w *TextWriter) writeDetails(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SIGNAL DETAILS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  OCR Confidence:     %.0f%%\n", report.ForensicDetails.OCRConfidence))
	sb.WriteString(fmt.Sprintf("  Manipulation Score: %d/100\n", report.ForensicDetails.ManipulationScore))
	if len(report.ForensicDetails.MetadataFlags) == 0 {
		sb.WriteString("  Metadata Flags:     none\n")
	} else {
		sb.WriteString("  Metadata Flags:\n")
		for _, flag := range report.ForensicDetails.MetadataFlags {
			sb.WriteString(fmt.Sprintf("    - %s\n", flag))
		}
	}
	sb.WriteString("\n")
}

// writeAgentLogs writes the execution log section.
func (w *TextWriter) writeAgentLogs(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EXECUTION LOG\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, entry := range report.AgentLogs {
		if entry.Status == model.StatusSuccess {
			sb.WriteString(fmt.Sprintf("  [+] %-10s %s (%s=%.0f)\n", entry.Agent, entry.Status, entry.Metric, entry.Value))
		} else {
			sb.WriteString(fmt.Sprintf("  [-] %-10s %s (%s)\n", entry.Agent, entry.Status, entry.Reason))
		}
	}
	sb.WriteString("\n")
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.IssueSeverity) string {
	switch severity {
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by receiptscan\n")
	sb.WriteString("https://github.com/nao1215/receiptscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
