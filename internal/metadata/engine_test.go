package metadata

import (
	"strings"
	"testing"
	"time"

	"github.com/nao1215/receiptscan/internal/model"
)

// cameraTags returns a tag set typical of an unedited camera original.
func cameraTags() map[string]string {
	return map[string]string{
		"Make":              "Canon",
		"Model":             "EOS R5",
		"Software":          "Firmware 1.8.1",
		"DateTimeOriginal":  "2025:03:14 09:26:53",
		"DateTimeDigitized": "2025:03:14 09:26:53",
	}
}

// TestEngineEvaluate tests the metadata risk rules.
func TestEngineEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("clean camera tags raise no flags", func(t *testing.T) {
		t.Parallel()

		sig := NewEngine().Evaluate(cameraTags())

		if len(sig.Flags) != 0 {
			t.Errorf("flags = %v, want none", sig.Flags)
		}
		if !sig.DatetimeConsistent {
			t.Error("expected consistent datetime")
		}
		if sig.RiskLevel != model.RiskLow {
			t.Errorf("risk level = %q, want low", sig.RiskLevel)
		}
		if sig.SoftwareDetected != "" {
			t.Errorf("software detected = %q, want empty", sig.SoftwareDetected)
		}
	})

	t.Run("editing software matches case-insensitively", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		tags["Software"] = "Adobe Photoshop 2024"
		sig := NewEngine().Evaluate(tags)

		if sig.SoftwareDetected != "adobe" {
			t.Errorf("software detected = %q, want adobe (first denylist match)", sig.SoftwareDetected)
		}
		if len(sig.Flags) != 1 {
			t.Fatalf("flags = %v, want exactly one", sig.Flags)
		}
		if want := "Edited with adobe - may indicate manipulation"; sig.Flags[0] != want {
			t.Errorf("flag = %q, want %q", sig.Flags[0], want)
		}
		if sig.RiskLevel != model.RiskMedium {
			t.Errorf("risk level = %q, want medium", sig.RiskLevel)
		}
	})

	t.Run("sparse tags flag stripped metadata", func(t *testing.T) {
		t.Parallel()

		sig := NewEngine().Evaluate(map[string]string{"Make": "Canon"})

		found := false
		for _, flag := range sig.Flags {
			if flag == "EXIF data missing or stripped - suspicious" {
				found = true
			}
		}
		if !found {
			t.Errorf("flags = %v, want stripped-metadata flag", sig.Flags)
		}
	})

	t.Run("datetime skew beyond the limit is flagged", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		tags["DateTimeDigitized"] = "2025:03:14 09:28:00"
		sig := NewEngine().Evaluate(tags)

		if sig.DatetimeConsistent {
			t.Error("expected inconsistent datetime")
		}
		found := false
		for _, flag := range sig.Flags {
			if flag == "Inconsistent datetime metadata" {
				found = true
			}
		}
		if !found {
			t.Errorf("flags = %v, want datetime flag", sig.Flags)
		}
	})

	t.Run("datetime skew within the limit passes", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		tags["DateTimeDigitized"] = "2025:03:14 09:27:50"
		sig := NewEngine().Evaluate(tags)

		if !sig.DatetimeConsistent {
			t.Error("expected consistent datetime within 60s skew")
		}
	})

	t.Run("missing or unparseable timestamps count as consistent", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		delete(tags, "DateTimeDigitized")
		if sig := NewEngine().Evaluate(tags); !sig.DatetimeConsistent {
			t.Error("missing digitized timestamp must not be penalized")
		}

		tags = cameraTags()
		tags["DateTimeOriginal"] = "yesterday"
		if sig := NewEngine().Evaluate(tags); !sig.DatetimeConsistent {
			t.Error("unparseable timestamp must not be penalized")
		}
	})

	t.Run("gps tags are flagged", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		tags["GPSLatitude"] = "6.5244"
		sig := NewEngine().Evaluate(tags)

		found := false
		for _, flag := range sig.Flags {
			if flag == "GPS data present (unusual for receipts)" {
				found = true
			}
		}
		if !found {
			t.Errorf("flags = %v, want GPS flag", sig.Flags)
		}
	})

	t.Run("three flags escalate to high risk", func(t *testing.T) {
		t.Parallel()

		sig := NewEngine().Evaluate(map[string]string{
			"Software":    "GIMP 2.10",
			"GPSLatitude": "6.5244",
		})

		// Editing software + stripped metadata + GPS = 3 flags.
		if len(sig.Flags) != 3 {
			t.Fatalf("flags = %v, want 3", sig.Flags)
		}
		if sig.RiskLevel != model.RiskHigh {
			t.Errorf("risk level = %q, want high", sig.RiskLevel)
		}
	})

	t.Run("custom denylist replaces the default", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		tags["Software"] = "Adobe Photoshop"
		e := NewEngine(WithEditingSoftware([]string{"luminar"}))

		if sig := e.Evaluate(tags); sig.SoftwareDetected != "" {
			t.Errorf("software detected = %q, want no match against custom denylist", sig.SoftwareDetected)
		}
	})

	t.Run("custom skew widens the tolerance", func(t *testing.T) {
		t.Parallel()

		tags := cameraTags()
		tags["DateTimeDigitized"] = "2025:03:14 09:31:00"
		e := NewEngine(WithMaxDatetimeSkew(10 * time.Minute))

		if sig := e.Evaluate(tags); !sig.DatetimeConsistent {
			t.Error("expected consistent datetime under widened skew")
		}
	})
}

// TestEngineScore tests the byte-level entry point.
func TestEngineScore(t *testing.T) {
	t.Parallel()

	t.Run("bytes without EXIF take the stripped path", func(t *testing.T) {
		t.Parallel()

		sig := NewEngine().Score([]byte("no exif here"))

		if len(sig.EXIFData) != 0 {
			t.Errorf("exif data = %v, want empty", sig.EXIFData)
		}
		found := false
		for _, flag := range sig.Flags {
			if strings.Contains(flag, "missing or stripped") {
				found = true
			}
		}
		if !found {
			t.Errorf("flags = %v, want stripped-metadata flag", sig.Flags)
		}
		if sig.RiskLevel != model.RiskMedium {
			t.Errorf("risk level = %q, want medium", sig.RiskLevel)
		}
	})
}
