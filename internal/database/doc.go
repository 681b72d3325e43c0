// Package database provides SQLite-based storage for receiptscan.
//
// This package implements the FraudDB, which stores:
//   - Verified fraud reports keyed by hashed account number
//   - Verified business records for merchant lookups
//   - Analysis reports for historical review
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
//
// Account numbers are never stored in the clear; the reputation producer
// hashes them with SHA-256 before any lookup or insert reaches this layer.
package database
