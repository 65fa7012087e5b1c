// Package config loads settings for the reminders command.
//
// Values are resolved in priority order:
//  1. Defaults
//  2. TOML config file (--config or REMINDERS_CONFIG)
//  3. Environment variables (REMINDERS_*)
//  4. Command-line flags
package config
