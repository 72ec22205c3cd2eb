package models

import "time"

// UserPlan tracks one user's position in a started reading plan.
// CurrentDay drives sequential, sectional and weekly plans; ListPositions
// drives cycling plans; FreeReadingTotal is the running chapter total for
// free-reading plans. The unused fields stay at their zero values.
type UserPlan struct {
	ID               string
	UserID           string
	PlanID           string
	StartDate        string // YYYY-MM-DD in the user's timezone
	CurrentDay       int
	ListPositions    map[string]int
	FreeReadingTotal int
	IsCompleted      bool
	CompletedAt      *time.Time
	IsArchived       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PositionFor returns the chapter pointer for a cycling list, defaulting to 0
func (u *UserPlan) PositionFor(listID string) int {
	if u.ListPositions == nil {
		return 0
	}
	return u.ListPositions[listID]
}
