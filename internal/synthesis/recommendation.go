package synthesis

import (
	"fmt"

	"github.com/nao1215/receiptscan/internal/model"
)

// recommendationFor maps a verdict to its action recommendation.
// Authentic splits on trust score, unclear on whether any issue was found.
func recommendationFor(verdict model.Verdict, trustScore, issueCount int) string {
	switch verdict {
	case model.VerdictFraudulent:
		return "DO NOT PROCEED - This receipt shows clear signs of fraud. Report this merchant immediately."
	case model.VerdictSuspicious:
		return "CAUTION ADVISED - This receipt has suspicious elements. Verify with merchant directly before proceeding."
	case model.VerdictUnclear:
		if issueCount == 0 {
			return "UNCLEAR - Unable to fully verify. Request additional documentation."
		}
		return fmt.Sprintf("UNCLEAR - %d issue(s) detected. Manual verification recommended.", issueCount)
	default:
		if trustScore >= 90 {
			return "HIGHLY TRUSTWORTHY - This receipt appears completely authentic."
		}
		return "LIKELY AUTHENTIC - This receipt appears genuine with minor concerns."
	}
}
