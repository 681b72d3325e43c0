// Package reputation implements the fraud-history and merchant lookup
// signal producer.
//
// The producer scans the extracted receipt text for account numbers and
// phone numbers, checks each account against the verified fraud-report
// store (by SHA-256 hash, never in the clear), and attempts to match a
// verified business name in the text. The combined result carries an
// overall trust level from very_low to very_high.
//
// Design decision: The producer depends on a narrow Store interface
// rather than the concrete database so the orchestrator can be tested
// with deterministic stand-ins and the persistent store remains an
// external collaborator.
package reputation
