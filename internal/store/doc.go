// Package store provides SQLite-backed durable storage for validation
// verdicts.
//
// The store is an append-only audit log. Each row records one gate run:
// which document was checked, its content fingerprint, and the outcome.
//
// # Ordering
//
// Rows are ordered by seq, the gate's logical clock, never by wall time.
// All queries end in ORDER BY seq ASC, run_id ASC COLLATE BINARY so results
// are identical across reads.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - single open connection: SQLite has one writer
package store
