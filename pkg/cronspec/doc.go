// Package cronspec renders recurring rules as standard cron expressions.
//
// Only the shape of a rule is translated; no occurrence dates are computed.
// Every expression produced is checked with the robfig/cron standard parser
// so it can be handed to any five-field cron scheduler.
//
// Rules that cron cannot express (ordinal weekdays such as "2wed", or
// one-shot rules) are reported with ErrNotExpressible or ErrNotRecurring.
package cronspec
