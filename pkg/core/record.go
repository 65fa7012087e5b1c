package core

import "time"

// RuleRecord is the persisted form of a Rule.
type RuleRecord struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Source      string    `gorm:"index;size:255;not null"`
	Line        int       `gorm:"default:0"`
	Anchor      time.Time `gorm:"index;not null"`
	Cadence     Cadence   `gorm:"index;size:16"`
	Options     string    `gorm:"type:text"` // Canonical weekday list, e.g. "2wed,thu"
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
