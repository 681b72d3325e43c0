package synthesis

import (
	"strings"
	"testing"

	"github.com/nao1215/receiptscan/internal/model"
	"github.com/nao1215/receiptscan/internal/signal"
)

// allSuccess returns inputs where every producer succeeded with the
// given signal values.
func allSuccess(v model.VisionSignal, f model.ForensicSignal, m model.MetadataSignal, r model.ReputationSignal) Inputs {
	return Inputs{
		Vision:     signal.Success(v),
		Forensic:   signal.Success(f),
		Metadata:   signal.Success(m),
		Reputation: signal.Success(r),
	}
}

// allFailed returns inputs where every producer failed.
func allFailed() Inputs {
	return Inputs{
		Vision:     signal.Failure[model.VisionSignal](signal.ErrTimeout),
		Forensic:   signal.Failure[model.ForensicSignal](signal.ErrTimeout),
		Metadata:   signal.Failure[model.MetadataSignal](signal.ErrTimeout),
		Reputation: signal.Failure[model.ReputationSignal](signal.ErrSkipped),
	}
}

// TestEngineTrustScore tests the weighted trust score computation.
func TestEngineTrustScore(t *testing.T) {
	t.Parallel()

	longText := strings.Repeat("x", 21)

	tests := []struct {
		name string
		in   Inputs
		want int
	}{
		{
			// 75 + (95-75)*0.25 + 5 = 85
			name: "high confidence with extracted text",
			in: allSuccess(
				model.VisionSignal{Confidence: 95, OCRText: longText},
				model.ForensicSignal{},
				model.MetadataSignal{},
				model.ReputationSignal{},
			),
			want: 85,
		},
		{
			// 75 + (95-75)*0.25 + 5 - 10*0.25 - 2*3 + 15 = 96
			name: "verified merchant with clean history",
			in: allSuccess(
				model.VisionSignal{Confidence: 95, OCRText: longText},
				model.ForensicSignal{ManipulationScore: 10},
				model.MetadataSignal{Flags: []string{"a", "b"}},
				model.ReputationSignal{Merchant: &model.Merchant{Name: "ACME Stores", Verified: true}},
			),
			want: 96,
		},
		{
			// All producers failed: the base score stands untouched.
			name: "all producers failed yields base score",
			in:   allFailed(),
			want: 75,
		},
		{
			// 75 - 100*0.25 - 10*3 - 5*10 = -30 -> clamp 0
			name: "clamped to zero",
			in: allSuccess(
				model.VisionSignal{Confidence: 75},
				model.ForensicSignal{ManipulationScore: 100},
				model.MetadataSignal{Flags: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}},
				model.ReputationSignal{TotalFraudReports: 5},
			),
			want: 0,
		},
		{
			// 75 + (100-75)*0.25 + 5 + 15 = 101.25 -> clamp 100
			name: "clamped to one hundred",
			in: allSuccess(
				model.VisionSignal{Confidence: 100, OCRText: longText},
				model.ForensicSignal{},
				model.MetadataSignal{},
				model.ReputationSignal{Merchant: &model.Merchant{Verified: true}},
			),
			want: 100,
		},
		{
			// Text of exactly 20 chars earns no extraction bonus.
			name: "short text earns no bonus",
			in: allSuccess(
				model.VisionSignal{Confidence: 75, OCRText: strings.Repeat("x", 20)},
				model.ForensicSignal{},
				model.MetadataSignal{},
				model.ReputationSignal{},
			),
			want: 75,
		},
		{
			// Unverified merchant earns no bonus.
			name: "unverified merchant earns no bonus",
			in: allSuccess(
				model.VisionSignal{Confidence: 75},
				model.ForensicSignal{},
				model.MetadataSignal{},
				model.ReputationSignal{Merchant: &model.Merchant{Name: "Unknown Shop", Verified: false}},
			),
			want: 75,
		},
		{
			// 75 + (50-75)*0.25 = 68.75 -> truncate 68
			name: "fractional score truncates toward zero",
			in: allSuccess(
				model.VisionSignal{Confidence: 50},
				model.ForensicSignal{},
				model.MetadataSignal{},
				model.ReputationSignal{},
			),
			want: 68,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewEngine()
			got := e.Synthesize(tt.in).TrustScore
			if got != tt.want {
				t.Errorf("trust score = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestEngineTrustScoreMonotonicity verifies that adding fraud reports
// never increases the trust score.
func TestEngineTrustScoreMonotonicity(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	prev := 101
	for reports := 0; reports <= 10; reports++ {
		in := allSuccess(
			model.VisionSignal{Confidence: 90, OCRText: strings.Repeat("x", 30)},
			model.ForensicSignal{},
			model.MetadataSignal{},
			model.ReputationSignal{TotalFraudReports: reports},
		)
		got := e.Synthesize(in).TrustScore
		if got > prev {
			t.Fatalf("score increased from %d to %d at %d fraud reports", prev, got, reports)
		}
		prev = got
	}
}

// TestEngineVerdict tests the verdict state machine including overrides.
func TestEngineVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
		want model.Verdict
	}{
		{
			name: "all producers failed defaults to authentic",
			in:   allFailed(),
			want: model.VerdictAuthentic,
		},
		{
			name: "three fraud reports force fraudulent",
			in: allSuccess(
				model.VisionSignal{Confidence: 100, OCRText: strings.Repeat("x", 30)},
				model.ForensicSignal{},
				model.MetadataSignal{},
				model.ReputationSignal{TotalFraudReports: 3},
			),
			want: model.VerdictFraudulent,
		},
		{
			name: "manipulation score eighty-five forces fraudulent despite high trust",
			in: allSuccess(
				model.VisionSignal{Confidence: 100, OCRText: strings.Repeat("x", 30)},
				model.ForensicSignal{ManipulationScore: 85},
				model.MetadataSignal{},
				model.ReputationSignal{Merchant: &model.Merchant{Verified: true}},
			),
			want: model.VerdictFraudulent,
		},
		{
			name: "manipulation score just below override follows trust bands",
			in: allSuccess(
				model.VisionSignal{Confidence: 75},
				model.ForensicSignal{ManipulationScore: 79},
				model.MetadataSignal{},
				model.ReputationSignal{},
			),
			// 75 - 79*0.25 = 55.25 -> 55 -> suspicious
			want: model.VerdictSuspicious,
		},
		{
			name: "score below twenty-five is fraudulent",
			in: allSuccess(
				model.VisionSignal{Confidence: 0},
				model.ForensicSignal{ManipulationScore: 70},
				model.MetadataSignal{Flags: []string{"a", "b", "c", "d", "e", "f", "g"}},
				model.ReputationSignal{},
			),
			// 75 - 18.75 - 17.5 - 21 = 17.75 -> 17 -> fraudulent
			want: model.VerdictFraudulent,
		},
		{
			name: "score in unclear band",
			in: allSuccess(
				model.VisionSignal{Confidence: 0},
				model.ForensicSignal{ManipulationScore: 70},
				model.MetadataSignal{},
				model.ReputationSignal{},
			),
			// 75 - 18.75 - 17.5 = 38.75 -> 38 -> unclear
			want: model.VerdictUnclear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewEngine()
			got := e.Synthesize(tt.in).Verdict
			if got != tt.want {
				t.Errorf("verdict = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestEngineCompileIssues tests issue compilation order and content.
func TestEngineCompileIssues(t *testing.T) {
	t.Parallel()

	t.Run("issues follow fixed source order", func(t *testing.T) {
		t.Parallel()

		in := allSuccess(
			model.VisionSignal{
				Confidence:      30,
				VisualAnomalies: []string{"misaligned totals"},
			},
			model.ForensicSignal{TechniquesDetected: []string{"Edge tampering detected"}},
			model.MetadataSignal{Flags: []string{"Editing software detected: gimp"}},
			model.ReputationSignal{TotalFraudReports: 2},
		)

		issues := NewEngine().Synthesize(in).Issues

		wantTypes := []model.IssueKind{
			model.IssueVisualAnomaly,
			model.IssuePoorImageQuality,
			model.IssueForensicFinding,
			model.IssueMetadataIssue,
			model.IssueFraudHistory,
		}
		if len(issues) != len(wantTypes) {
			t.Fatalf("got %d issues, want %d", len(issues), len(wantTypes))
		}
		for i, want := range wantTypes {
			if issues[i].Type != want {
				t.Errorf("issue %d type = %q, want %q", i, issues[i].Type, want)
			}
		}
	})

	t.Run("forensic findings carry detected prefix and high severity", func(t *testing.T) {
		t.Parallel()

		in := allSuccess(
			model.VisionSignal{Confidence: 90},
			model.ForensicSignal{TechniquesDetected: []string{"Inconsistent noise patterns"}},
			model.MetadataSignal{},
			model.ReputationSignal{},
		)

		issues := NewEngine().Synthesize(in).Issues
		if len(issues) != 1 {
			t.Fatalf("got %d issues, want 1", len(issues))
		}
		if issues[0].Severity != model.SeverityHigh {
			t.Errorf("severity = %v, want high", issues[0].Severity)
		}
		if issues[0].Description != "Detected: Inconsistent noise patterns" {
			t.Errorf("description = %q", issues[0].Description)
		}
	})

	t.Run("fraud history issue counts reports", func(t *testing.T) {
		t.Parallel()

		in := allSuccess(
			model.VisionSignal{Confidence: 90},
			model.ForensicSignal{},
			model.MetadataSignal{},
			model.ReputationSignal{TotalFraudReports: 4},
		)

		issues := NewEngine().Synthesize(in).Issues
		if len(issues) != 1 {
			t.Fatalf("got %d issues, want 1", len(issues))
		}
		want := "Account has 4 verified fraud report(s)"
		if issues[0].Description != want {
			t.Errorf("description = %q, want %q", issues[0].Description, want)
		}
	})

	t.Run("failed producers contribute no issues", func(t *testing.T) {
		t.Parallel()

		issues := NewEngine().Synthesize(allFailed()).Issues
		if len(issues) != 0 {
			t.Errorf("got %d issues, want 0", len(issues))
		}
	})

	t.Run("confidence exactly forty is not poor quality", func(t *testing.T) {
		t.Parallel()

		in := allSuccess(
			model.VisionSignal{Confidence: 40},
			model.ForensicSignal{},
			model.MetadataSignal{},
			model.ReputationSignal{},
		)

		issues := NewEngine().Synthesize(in).Issues
		if len(issues) != 0 {
			t.Errorf("got %d issues, want 0", len(issues))
		}
	})
}

// TestRecommendationFor tests the recommendation mapping.
func TestRecommendationFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verdict    model.Verdict
		trustScore int
		issueCount int
		want       string
	}{
		{
			name:    "fraudulent",
			verdict: model.VerdictFraudulent,
			want:    "DO NOT PROCEED - This receipt shows clear signs of fraud. Report this merchant immediately.",
		},
		{
			name:    "suspicious",
			verdict: model.VerdictSuspicious,
			want:    "CAUTION ADVISED - This receipt has suspicious elements. Verify with merchant directly before proceeding.",
		},
		{
			name:    "unclear with no issues",
			verdict: model.VerdictUnclear,
			want:    "UNCLEAR - Unable to fully verify. Request additional documentation.",
		},
		{
			name:       "unclear with issues",
			verdict:    model.VerdictUnclear,
			issueCount: 3,
			want:       "UNCLEAR - 3 issue(s) detected. Manual verification recommended.",
		},
		{
			name:       "authentic at ninety",
			verdict:    model.VerdictAuthentic,
			trustScore: 90,
			want:       "HIGHLY TRUSTWORTHY - This receipt appears completely authentic.",
		},
		{
			name:       "authentic below ninety",
			verdict:    model.VerdictAuthentic,
			trustScore: 75,
			want:       "LIKELY AUTHENTIC - This receipt appears genuine with minor concerns.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := recommendationFor(tt.verdict, tt.trustScore, tt.issueCount)
			if got != tt.want {
				t.Errorf("recommendation = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestEngineDeterminism verifies that identical inputs yield identical outcomes.
func TestEngineDeterminism(t *testing.T) {
	t.Parallel()

	in := allSuccess(
		model.VisionSignal{Confidence: 62, OCRText: strings.Repeat("r", 40), VisualAnomalies: []string{"odd font"}},
		model.ForensicSignal{ManipulationScore: 35, TechniquesDetected: []string{"JPEG compression anomalies"}},
		model.MetadataSignal{Flags: []string{"GPS data present (unusual for receipts)"}},
		model.ReputationSignal{TotalFraudReports: 1},
	)

	e := NewEngine()
	first := e.Synthesize(in)
	for i := 0; i < 10; i++ {
		got := e.Synthesize(in)
		if got.TrustScore != first.TrustScore || got.Verdict != first.Verdict ||
			len(got.Issues) != len(first.Issues) || got.Recommendation != first.Recommendation {
			t.Fatalf("outcome differs between runs: %+v vs %+v", got, first)
		}
	}
}
