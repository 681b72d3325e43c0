// Package signal provides the tagged result type threaded between the
// orchestrator's fan-out stage and the synthesis stage.
//
// Design decision: Producer failures are modeled as values rather than
// propagated errors because one producer failing must never disturb its
// siblings or abort the pipeline. A Result is either a complete typed
// payload or a failure reason; partially populated signals cannot exist.
package signal
