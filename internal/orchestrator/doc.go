// Package orchestrator coordinates the signal producers for one receipt
// analysis and assembles the final report.
//
// Three producers (vision, forensic, metadata) run concurrently, each
// under its own deadline. A fourth, reputation, runs afterward only when
// vision extracted usable text, because it has nothing to check without
// it. Producer outcomes are isolated: one failing or timing out never
// cancels the others, and every producer leaves exactly one entry in the
// execution log regardless of how it ended.
//
// Design decision: Producers are injected as narrow interfaces rather
// than constructed here. The orchestrator owns sequencing, deadlines,
// and report assembly; it knows nothing about OpenAI, SQLite, or image
// decoding, which keeps it fully testable with deterministic stand-ins.
package orchestrator
