// Package synthesis combines the producer signals into the final trust
// score, verdict, issue list, and recommendation.
//
// The engine is deterministic: the same set of signals always yields the
// same outcome. Failed producers contribute neutral defaults rather than
// blocking synthesis, so a partial analysis still produces a complete,
// well-formed result.
//
// Design decision: Two verdict conditions override the trust score
// entirely (three or more verified fraud reports, or a manipulation
// score of 80+). Fraud history and strong forensic evidence are direct
// observations, not statistical hints, and no amount of favorable
// signals elsewhere should outvote them.
package synthesis
