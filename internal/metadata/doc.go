// Package metadata implements the provenance-metadata risk engine.
//
// The engine extracts EXIF tags from the receipt image and evaluates a set
// of independent rules against them: known editing software, stripped
// metadata, inconsistent capture/digitization timestamps, and unexpected
// GPS data. Each rule contributes one flag; the flag count maps to a risk
// level.
//
// Design decision: The engine is non-failing and deliberately conservative.
// Missing metadata is weak evidence at best (plenty of legitimate tooling
// strips EXIF), so an internal failure degrades to an empty, low-risk
// signal rather than becoming a false-positive fraud indicator.
package metadata
