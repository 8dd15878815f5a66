// Package gate runs order documents through the dependency graph checks and
// records each outcome as a Verdict.
//
// A Gate stamps every run with a UUIDv7 run id and a seq from its logical
// clock, caches outcomes by document fingerprint, and appends verdicts to an
// optional audit Recorder. Verdicts are deterministic for a given
// fingerprint and step budget, so cached outcomes are reused as-is.
//
// A Gate is safe for concurrent use.
package gate
