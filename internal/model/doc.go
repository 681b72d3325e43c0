// Package model defines the core data structures used throughout receiptscan.
//
// This package contains the following main types:
//   - AnalysisReport: The final analysis result returned to callers
//   - VisionSignal, ForensicSignal, MetadataSignal, ReputationSignal:
//     typed outputs of the individual signal producers
//   - Issue: A single detected problem with kind, severity, and description
//   - Verdict and the related categorical levels (risk, trust, quality)
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (forensic, metadata, vision, reputation,
// orchestrator, synthesis, report) need these types, so centralizing them
// prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
