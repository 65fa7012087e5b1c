// Package parser turns reminder lines into rules.
//
// A reminder line has the form:
//
//	[YYYY-MM-DD HH:MM [code [weekdays]]] description
//
// where code is one of a (annually), m (monthly), w (weekly) or d (daily)
// and weekdays is a comma-separated list of tokens such as "mon" or "2wed".
//
// This package provides:
//   - ParseLine for a whole line
//   - ParseRecurrenceCode, ParseWeekdayToken and ParseWeekdayList for the parts
//
// All functions are pure and safe for concurrent use.
//
// Most users should import the root package github.com/jdziat/simple-reminders
// which re-exports these functions.
package parser
