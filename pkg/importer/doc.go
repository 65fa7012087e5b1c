// Package importer loads reminder files into rule storage.
//
// This package includes:
//   - Importer: scans sources and replaces their stored rules
//   - Option: configuration for concurrency, strictness and retries
//   - Retry with exponential backoff around storage writes
//
// A source is imported as a whole: its previous rules are swapped for the
// newly accepted ones in one transaction. Rejected lines are reported and
// never stored.
//
// Most users should import the root package github.com/jdziat/simple-reminders
// which provides NewImporter().
package importer
