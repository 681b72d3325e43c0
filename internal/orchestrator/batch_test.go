package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nao1215/receiptscan/internal/model"
)

// writeTempImages creates n placeholder image files and returns batch items.
func writeTempImages(t *testing.T, n int) []BatchItem {
	t.Helper()

	dir := t.TempDir()
	items := make([]BatchItem, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, "receipt.jpg")
		if n > 1 {
			path = filepath.Join(dir, "receipt"+string(rune('a'+i))+".jpg")
		}
		if err := os.WriteFile(path, []byte("not a real image"), 0600); err != nil {
			t.Fatal(err)
		}
		items = append(items, BatchItem{ReceiptID: filepath.Base(path), ImagePath: path})
	}
	return items
}

// TestBatchAnalyzerAnalyzeBatch tests concurrent batch analysis.
func TestBatchAnalyzerAnalyzeBatch(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order", func(t *testing.T) {
		t.Parallel()

		v, f, m, r := happyProducers()
		ba := NewBatchAnalyzer(New(v, f, m, r), WithConcurrency(3))

		items := writeTempImages(t, 5)
		reports, err := ba.AnalyzeBatch(context.Background(), items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(reports) != len(items) {
			t.Fatalf("got %d reports, want %d", len(reports), len(items))
		}
		for i, rep := range reports {
			if rep == nil {
				t.Fatalf("report %d is nil", i)
			}
			if rep.ReceiptID != items[i].ReceiptID {
				t.Errorf("report %d receipt ID = %q, want %q", i, rep.ReceiptID, items[i].ReceiptID)
			}
		}
	})

	t.Run("unreadable image yields failsafe report", func(t *testing.T) {
		t.Parallel()

		v, f, m, r := happyProducers()
		ba := NewBatchAnalyzer(New(v, f, m, r))

		items := []BatchItem{{ReceiptID: "missing", ImagePath: filepath.Join(t.TempDir(), "absent.jpg")}}
		reports, err := ba.AnalyzeBatch(context.Background(), items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if reports[0].Verdict != model.VerdictFraudulent {
			t.Errorf("verdict = %q, want fraudulent", reports[0].Verdict)
		}
		if reports[0].TrustScore != 0 {
			t.Errorf("trust score = %d, want 0", reports[0].TrustScore)
		}
	})

	t.Run("callback fires once per item", func(t *testing.T) {
		t.Parallel()

		v, f, m, r := happyProducers()
		ba := NewBatchAnalyzer(New(v, f, m, r), WithConcurrency(2))

		items := writeTempImages(t, 4)

		var mu sync.Mutex
		seen := make(map[int]bool)
		err := ba.AnalyzeBatchWithCallback(context.Background(), items, func(rep *model.AnalysisReport, index int) {
			mu.Lock()
			defer mu.Unlock()
			if seen[index] {
				t.Errorf("callback fired twice for index %d", index)
			}
			seen[index] = true
			if rep == nil {
				t.Errorf("nil report for index %d", index)
			}
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(seen) != len(items) {
			t.Errorf("callback fired for %d items, want %d", len(seen), len(items))
		}
	})
}
