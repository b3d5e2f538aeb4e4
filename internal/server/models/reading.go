package models

import "time"

// Reading is a scheduled scripture passage. Reference uses the provider's
// OSIS notation, e.g. "Ps.23".
type Reading struct {
	ID        int64
	Date      time.Time
	Reference string
	Title     string
}

// Passage is the cached text of a Reading in one Version. Entries are
// written once and never updated.
type Passage struct {
	ReadingID int64
	VersionID int64
	Content   string
}
