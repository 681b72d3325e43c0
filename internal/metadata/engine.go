package metadata

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/receiptscan/internal/model"
)

// exifDateTimeLayout is the timestamp format used by EXIF DateTime tags.
const exifDateTimeLayout = "2006:01:02 15:04:05"

// DefaultMaxDatetimeSkew is the allowed difference between the
// captured-at (DateTimeOriginal) and digitized-at (DateTimeDigitized)
// timestamps. A camera writes both within the same second; a larger gap
// suggests the file was reprocessed.
const DefaultMaxDatetimeSkew = 60 * time.Second

// minExpectedTags is the minimum number of EXIF tags a camera-original
// image carries. Fewer than this suggests the metadata was stripped.
const minExpectedTags = 3

// DefaultEditingSoftware is the denylist of editing-software names checked
// against the Software tag. Matching is a case-insensitive substring test,
// so "Adobe Photoshop 2024" matches both "adobe" and "photoshop".
var DefaultEditingSoftware = []string{
	"adobe",
	"photoshop",
	"gimp",
	"paint",
	"canva",
	"pixlr",
	"snapseed",
}

// Engine evaluates provenance metadata for signs of manipulation.
type Engine struct {
	// editingSoftware is the denylist of editor names.
	editingSoftware []string

	// maxDatetimeSkew is the allowed captured-at vs digitized-at gap.
	maxDatetimeSkew time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEditingSoftware overrides the editing-software denylist.
func WithEditingSoftware(names []string) Option {
	return func(e *Engine) {
		if len(names) > 0 {
			e.editingSoftware = names
		}
	}
}

// WithMaxDatetimeSkew sets the allowed timestamp gap.
func WithMaxDatetimeSkew(skew time.Duration) Option {
	return func(e *Engine) {
		if skew > 0 {
			e.maxDatetimeSkew = skew
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a metadata engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		editingSoftware: DefaultEditingSoftware,
		maxDatetimeSkew: DefaultMaxDatetimeSkew,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Score extracts EXIF tags from the raw image bytes and evaluates the
// risk rules against them. It never returns an error: on any internal
// failure it returns the conservative default (no flags, low risk,
// consistent timestamps).
func (e *Engine) Score(data []byte) (signal model.MetadataSignal) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("metadata: evaluation panicked, returning conservative default", "panic", r)
			signal = conservativeDefault()
		}
	}()

	tags := e.extractTags(data)
	return e.Evaluate(tags)
}

// Evaluate runs the risk rules against an already-extracted tag mapping.
// Rules are independent; each contributes at most one flag.
func (e *Engine) Evaluate(tags map[string]string) model.MetadataSignal {
	flags := make([]string, 0)
	softwareDetected := ""

	// Rule 1: known editing software in the Software tag.
	software := strings.ToLower(tags["Software"])
	for _, editor := range e.editingSoftware {
		if strings.Contains(software, editor) {
			softwareDetected = editor
			flags = append(flags, fmt.Sprintf("Edited with %s - may indicate manipulation", editor))
			break
		}
	}

	// Rule 2: stripped metadata. Absence of evidence, but camera originals
	// always carry more than a handful of tags.
	if len(tags) < minExpectedTags {
		flags = append(flags, "EXIF data missing or stripped - suspicious")
	}

	// Rule 3: captured-at vs digitized-at timestamp consistency.
	datetimeConsistent := e.datetimeConsistent(tags)
	if !datetimeConsistent {
		flags = append(flags, "Inconsistent datetime metadata")
	}

	// Rule 4: GPS data. Transaction receipts have no business carrying
	// geolocation.
	if hasGPSTag(tags) {
		flags = append(flags, "GPS data present (unusual for receipts)")
	}

	return model.MetadataSignal{
		EXIFData:           tags,
		Flags:              flags,
		SoftwareDetected:   softwareDetected,
		DatetimeConsistent: datetimeConsistent,
		RiskLevel:          riskLevelFor(len(flags)),
	}
}

// extractTags parses EXIF data out of the image bytes into a flat
// tag-name to value mapping. Extraction failures yield an empty map;
// the stripped-metadata rule then applies naturally.
func (e *Engine) extractTags(data []byte) map[string]string {
	tags := make(map[string]string)

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		e.logger.Debug("metadata: no EXIF segment found", "error", err)
		return tags
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		e.logger.Debug("metadata: EXIF parse failed", "error", err)
		return tags
	}

	for _, entry := range entries {
		if entry.TagName != "" {
			tags[entry.TagName] = entry.Formatted
		}
	}
	return tags
}

// datetimeConsistent checks whether DateTimeOriginal and DateTimeDigitized
// agree within the allowed skew. Missing or unparseable timestamps count
// as consistent: absence cannot be penalized.
func (e *Engine) datetimeConsistent(tags map[string]string) bool {
	original, okOriginal := tags["DateTimeOriginal"]
	digitized, okDigitized := tags["DateTimeDigitized"]
	if !okOriginal || !okDigitized {
		return true
	}

	t1, err := time.Parse(exifDateTimeLayout, original)
	if err != nil {
		return true
	}
	t2, err := time.Parse(exifDateTimeLayout, digitized)
	if err != nil {
		return true
	}

	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return diff <= e.maxDatetimeSkew
}

// hasGPSTag reports whether any GPS-prefixed tag is present.
func hasGPSTag(tags map[string]string) bool {
	for name := range tags {
		if strings.HasPrefix(name, "GPS") {
			return true
		}
	}
	return false
}

// riskLevelFor maps the flag count to a risk level: 0 low, 1-2 medium, 3+ high.
func riskLevelFor(flagCount int) model.RiskLevel {
	switch {
	case flagCount >= 3:
		return model.RiskHigh
	case flagCount >= 1:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// conservativeDefault is the non-penalizing signal returned when the
// engine itself fails.
func conservativeDefault() model.MetadataSignal {
	return model.MetadataSignal{
		EXIFData:           make(map[string]string),
		Flags:              make([]string, 0),
		DatetimeConsistent: true,
		RiskLevel:          model.RiskLow,
	}
}
