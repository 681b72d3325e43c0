package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/receiptscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeVerdict(md, report)
	w.writeIssues(md, report)
	w.writeDetails(md, report)
	w.writeAgentLogs(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with receipt information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("Receipt Analysis Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Receipt ID", "`" + report.ReceiptID + "`"},
			{"Analyzed At", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
			{"Trust Score", strconv.Itoa(report.TrustScore) + "/100"},
			{"Verdict", verdictText(report.Verdict)},
			{"Elapsed", fmt.Sprintf("%.2fs", report.ProcessingTimeSeconds)},
		},
	})
	md.PlainText("")
}

// verdictText returns the verdict with a visual indicator.
func verdictText(verdict model.Verdict) string {
	switch verdict {
	case model.VerdictAuthentic:
		return "✅ Authentic"
	case model.VerdictSuspicious:
		return "⚠️ Suspicious"
	case model.VerdictUnclear:
		return "❓ Unclear"
	case model.VerdictFraudulent:
		return "🚨 Fraudulent"
	default:
		return string(verdict)
	}
}

// writeVerdict writes the recommendation and an alert matching the verdict.
func (w *MarkdownWriter) writeVerdict(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Recommendation")
	md.PlainText("")

	switch report.Verdict {
	case model.VerdictFraudulent:
		md.Caution(report.Recommendation)
	case model.VerdictSuspicious:
		md.Warning(report.Recommendation)
	case model.VerdictUnclear:
		md.Important(report.Recommendation)
	default:
		md.Tip(report.Recommendation)
	}
	md.PlainText("")

	if report.Merchant != nil {
		md.PlainTextf("Matched merchant: **%s** (verified: %t, trust score: %d)",
			report.Merchant.Name, report.Merchant.Verified, report.Merchant.TrustScore)
		md.PlainText("")
	}
}

// writeIssues writes the issue summary and detail tables.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Issues")
	md.PlainText("")

	if len(report.Issues) == 0 {
		md.PlainText("No issues detected.")
		md.PlainText("")
		return
	}

	high := report.IssueCountBySeverity(model.SeverityHigh)
	medium := report.IssueCountBySeverity(model.SeverityMedium)
	low := report.IssueCountBySeverity(model.SeverityLow)

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🟠 High", strconv.Itoa(high)},
			{"🟡 Medium", strconv.Itoa(medium)},
			{"🔵 Low", strconv.Itoa(low)},
			{"**Total**", "**" + strconv.Itoa(len(report.Issues)) + "**"},
		},
	})
	md.PlainText("")

	w.writePieChart(md, high, medium, low)

	rows := make([][]string, len(report.Issues))
	for i, issue := range report.Issues {
		rows[i] = []string{
			string(issue.Type),
			strings.ToUpper(issue.Severity.String()),
			truncateString(issue.Description, 70),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Type", "Severity", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart for issue severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, high, medium, low int) {
	if high+medium+low == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	if high > 0 {
		chart.LabelAndIntValue("High", uint64(high))
	}
	if medium > 0 {
		chart.LabelAndIntValue("Medium", uint64(medium))
	}
	if low > 0 {
		chart.LabelAndIntValue("Low", uint64(low))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDetails writes the signal summary section.
func (w *MarkdownWriter) writeDetails(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Signal Details")
	md.PlainText("")

	flags := "-"
	if len(report.ForensicDetails.MetadataFlags) > 0 {
		flags = strings.Join(report.ForensicDetails.MetadataFlags, "; ")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Signal", "Value"},
		Rows: [][]string{
			{"OCR Confidence", fmt.Sprintf("%.0f%%", report.ForensicDetails.OCRConfidence)},
			{"Manipulation Score", strconv.Itoa(report.ForensicDetails.ManipulationScore) + "/100"},
			{"Metadata Flags", truncateString(flags, 80)},
		},
	})
	md.PlainText("")
}

// writeAgentLogs writes the execution log table.
func (w *MarkdownWriter) writeAgentLogs(md *markdown.Markdown, report *model.AnalysisReport) {
	if len(report.AgentLogs) == 0 {
		return
	}

	md.H2("Execution Log")
	md.PlainText("")

	rows := make([][]string, len(report.AgentLogs))
	for i, entry := range report.AgentLogs {
		detail := entry.Reason
		if entry.Status == model.StatusSuccess {
			detail = fmt.Sprintf("%s=%.0f", entry.Metric, entry.Value)
		}
		rows[i] = []string{entry.Agent, string(entry.Status), detail}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Agent", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [receiptscan](https://github.com/nao1215/receiptscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
