// Package core provides the fundamental types and interfaces for the reminders package.
//
// This package contains:
//   - Rule, Cadence, Weekday and WeekdayQualifier value types
//   - RuleRecord persistence model with GORM annotations
//   - Storage interface defining the persistence contract
//   - Event types emitted while scanning rule files
//   - Error types for parsing and validation
//
// Most users should import the root package github.com/jdziat/simple-reminders
// instead of this package directly.
package core
