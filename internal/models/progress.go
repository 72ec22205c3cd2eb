package models

import "time"

// DailyProgress is the persisted completion state for one user-plan on one
// calendar date. Rows are created lazily on first toggle and updated in
// place; they are never deleted. DayNumber is a denormalized copy of the
// plan's day pointer at creation time so completion state survives the
// midnight rollover; cycling plans store 0 (they have no day pointer).
type DailyProgress struct {
	ID                string
	UserPlanID        string
	DayNumber         int
	Date              string // YYYY-MM-DD
	CompletedSections []string
	IsComplete        bool
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasSection reports whether a section id is marked complete
func (p *DailyProgress) HasSection(sectionID string) bool {
	if p == nil {
		return false
	}
	for _, s := range p.CompletedSections {
		if s == sectionID {
			return true
		}
	}
	return false
}

// Section is one checkable reading unit resolved for a day or list position
type Section struct {
	ID           string
	ListID       string
	Label        string
	Passage      string
	ChapterIndex int
	IsCompleted  bool
}
