// Package security provides validation, sanitization, and limits for the reminders package.
//
// This package includes:
//   - Input validation for rule source names
//   - Description sanitization before persistence
//   - Clamping functions to enforce safe limits on concurrency and line length
//   - Security-related constants defining maximum sizes and counts
//
// Most users should import the root package github.com/jdziat/simple-reminders
// which re-exports these functions.
package security
