// Package forensic implements the image-manipulation scoring engine.
//
// The engine computes four independent sub-scores from one receipt image:
//   - ELA: error-level analysis via reference-quality re-encoding
//   - Noise: Laplacian variance of the luminance channel
//   - Compression: JPEG re-encoding size-ratio heuristic
//   - Edge: edge-pixel density tiers
//
// The sub-scores are combined into a single 0-100 manipulation score with
// fixed weights, plus a list of named techniques for scores above the
// detection threshold.
//
// Design decision: The engine is non-failing. Forensic analysis is advisory
// rather than load-bearing, so any sub-score that cannot be computed
// degrades to 0 instead of failing the analysis. A fully undecodable image
// simply produces an all-zero signal.
package forensic
