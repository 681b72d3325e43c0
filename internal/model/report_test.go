package model

import "testing"

// TestNewAnalysisReport tests report shell construction.
func TestNewAnalysisReport(t *testing.T) {
	t.Parallel()

	r := NewAnalysisReport("receipt-1")

	if r.ReceiptID != "receipt-1" {
		t.Errorf("receipt ID = %q, want %q", r.ReceiptID, "receipt-1")
	}
	if r.Issues == nil || len(r.Issues) != 0 {
		t.Errorf("issues = %v, want empty non-nil slice", r.Issues)
	}
	if r.AgentLogs == nil || len(r.AgentLogs) != 0 {
		t.Errorf("agent logs = %v, want empty non-nil slice", r.AgentLogs)
	}
	if r.DateAnalyzed.IsZero() {
		t.Error("date analyzed must be set")
	}
}

// TestAnalysisReportAddLog tests execution-log accumulation.
func TestAnalysisReportAddLog(t *testing.T) {
	t.Parallel()

	r := NewAnalysisReport("receipt-1")
	r.AddLog(AgentLog{Agent: AgentVision, Status: StatusSuccess, Metric: "confidence", Value: 90})
	r.AddLog(AgentLog{Agent: AgentForensic, Status: StatusTimeout, Reason: "timeout"})

	if len(r.AgentLogs) != 2 {
		t.Fatalf("got %d log entries, want 2", len(r.AgentLogs))
	}
	if r.AgentLogs[0].Agent != AgentVision || r.AgentLogs[1].Agent != AgentForensic {
		t.Errorf("log order = [%s, %s], want [vision, forensic]",
			r.AgentLogs[0].Agent, r.AgentLogs[1].Agent)
	}
}

// TestIssueCountBySeverity tests severity counting.
func TestIssueCountBySeverity(t *testing.T) {
	t.Parallel()

	r := NewAnalysisReport("receipt-1")
	r.Issues = []Issue{
		{Type: IssueVisualAnomaly, Severity: SeverityMedium},
		{Type: IssueForensicFinding, Severity: SeverityHigh},
		{Type: IssueMetadataIssue, Severity: SeverityMedium},
	}

	tests := []struct {
		name     string
		severity IssueSeverity
		want     int
	}{
		{name: "no low issues", severity: SeverityLow, want: 0},
		{name: "two medium issues", severity: SeverityMedium, want: 2},
		{name: "one high issue", severity: SeverityHigh, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.IssueCountBySeverity(tt.severity); got != tt.want {
				t.Errorf("IssueCountBySeverity(%v) = %d, want %d", tt.severity, got, tt.want)
			}
		})
	}
}
