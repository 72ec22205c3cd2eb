package models

import "time"

// FreeReadingChapter marks one (book, chapter) as read within a free-reading
// plan. Presence means read; uniqueness is enforced on
// (user_plan_id, book, chapter).
type FreeReadingChapter struct {
	ID         string
	UserPlanID string
	Book       string
	Chapter    int
	CreatedAt  time.Time
}
