package core

import "time"

// Event is the interface for all scan events.
type Event interface {
	eventMarker()
}

// LineAccepted is emitted when a line parses into a rule.
type LineAccepted struct {
	Source    string
	Line      int
	Rule      Rule
	Timestamp time.Time
}

func (*LineAccepted) eventMarker() {}

// LineRejected is emitted when a line carries a schedule that cannot be used.
type LineRejected struct {
	Source    string
	Line      int
	Text      string
	Error     error
	Timestamp time.Time
}

func (*LineRejected) eventMarker() {}

// LineSkipped is emitted for lines without a schedule expression.
type LineSkipped struct {
	Source    string
	Line      int
	Timestamp time.Time
}

func (*LineSkipped) eventMarker() {}

// ScanCompleted is emitted once a source has been fully scanned.
type ScanCompleted struct {
	Source    string
	Accepted  int
	Rejected  int
	Skipped   int
	Duration  time.Duration
	Timestamp time.Time
}

func (*ScanCompleted) eventMarker() {}
