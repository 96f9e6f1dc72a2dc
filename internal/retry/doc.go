// Package retry provides a small retry executor with pluggable error
// classification and backoff.
//
// The provisioning loop retries database creation with a fresh candidate
// name on every attempt, so the operation closure owns the per-attempt
// state; the executor only decides whether and when to run it again.
package retry
