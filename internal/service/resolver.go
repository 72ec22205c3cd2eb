package service

import (
	"fmt"

	"kindled/internal/models"
)

// ResolveSections computes the ordered set of checkable readings for a user
// plan's current position. Completion flags come from the given progress
// row, which may be nil. Positions beyond the defined schedule resolve to an
// empty list; callers treat zero sections as "nothing scheduled".
func ResolveSections(plan *models.ReadingPlan, userPlan *models.UserPlan, progress *models.DailyProgress) []models.Section {
	if plan == nil || userPlan == nil || plan.Structure == nil {
		return nil
	}

	switch structure := plan.Structure.(type) {
	case models.CyclingLists:
		return resolveCycling(structure, userPlan, progress)
	case models.Sequential:
		return resolveSequential(structure, userPlan.CurrentDay, progress)
	case models.Sectional:
		return resolveSectional(structure, userPlan.CurrentDay, progress)
	case models.WeeklySectional:
		return resolveWeekly(structure, userPlan.CurrentDay, progress)
	case models.FreeReading:
		// Free reading has no schedule; its own tracker handles completion
		return nil
	default:
		return nil
	}
}

// resolveCycling emits one section per list, at that list's own chapter
// pointer. Section ids are "{listID}:{chapterIndex}".
func resolveCycling(structure models.CyclingLists, userPlan *models.UserPlan, progress *models.DailyProgress) []models.Section {
	sections := make([]models.Section, 0, len(structure.Lists))
	for _, list := range structure.Lists {
		index := userPlan.PositionFor(list.ID)
		book, chapter, ok := list.ChapterAt(index)
		if !ok {
			continue
		}

		id := fmt.Sprintf("%s:%d", list.ID, index)
		sections = append(sections, models.Section{
			ID:           id,
			ListID:       list.ID,
			Label:        list.Label,
			Passage:      fmt.Sprintf("%s %d", book, chapter),
			ChapterIndex: index,
			IsCompleted:  progress.HasSection(id),
		})
	}
	return sections
}

// resolveSequential emits a single section covering the whole day, id
// "day-{N}". Modern plans carry explicit readings; legacy plans only have a
// chapters-per-day constant, so the passage is a synthetic chapter span.
func resolveSequential(structure models.Sequential, day int, progress *models.DailyProgress) []models.Section {
	if day < 1 {
		return nil
	}

	id := fmt.Sprintf("day-%d", day)

	if len(structure.Readings) > 0 {
		reading, ok := models.ReadingFor(structure.Readings, day)
		if !ok {
			return nil
		}

		label := fmt.Sprintf("Day %d", day)
		for _, sec := range reading.Sections {
			if sec.Label != "" {
				label = sec.Label
				break
			}
		}

		passage := ""
		for _, sec := range reading.Sections {
			for _, p := range sec.Passages {
				if passage != "" {
					passage += ", "
				}
				passage += p
			}
		}

		return []models.Section{{
			ID:          id,
			Label:       label,
			Passage:     passage,
			IsCompleted: progress.HasSection(id),
		}}
	}

	if structure.ChaptersPerDay <= 0 {
		return nil
	}

	first := (day-1)*structure.ChaptersPerDay + 1
	last := day * structure.ChaptersPerDay
	return []models.Section{{
		ID:          id,
		Label:       fmt.Sprintf("Day %d", day),
		Passage:     fmt.Sprintf("Chapters %d-%d", first, last),
		IsCompleted: progress.HasSection(id),
	}}
}

// resolveSectional emits one section per sub-reading with the day number
// embedded in the id ("day{N}-{sectionID}") so a prior day's completions
// never collide with today's, even though raw section ids repeat across days
func resolveSectional(structure models.Sectional, day int, progress *models.DailyProgress) []models.Section {
	reading, ok := models.ReadingFor(structure.Readings, day)
	if !ok {
		return nil
	}

	sections := make([]models.Section, 0, len(reading.Sections))
	for _, sec := range reading.Sections {
		id := fmt.Sprintf("day%d-%s", day, sec.ID)
		passage := ""
		for _, p := range sec.Passages {
			if passage != "" {
				passage += ", "
			}
			passage += p
		}

		sections = append(sections, models.Section{
			ID:          id,
			Label:       sec.Label,
			Passage:     passage,
			IsCompleted: progress.HasSection(id),
		})
	}
	return sections
}

// resolveWeekly converts the running day number into (week, day-in-week)
// and emits the single reading scheduled for that slot, id
// "week{W}-day{D}"
func resolveWeekly(structure models.WeeklySectional, day int, progress *models.DailyProgress) []models.Section {
	if day < 1 || structure.ReadingsPerWeek < 1 {
		return nil
	}

	week := (day + structure.ReadingsPerWeek - 1) / structure.ReadingsPerWeek
	dayInWeek := (day-1)%structure.ReadingsPerWeek + 1

	for _, w := range structure.Weeks {
		if w.Week != week {
			continue
		}
		for _, reading := range w.Readings {
			if reading.DayOfWeek != dayInWeek {
				continue
			}

			id := fmt.Sprintf("week%d-day%d", week, dayInWeek)
			return []models.Section{{
				ID:          id,
				Label:       structure.CategoryLabel(reading.CategoryID),
				Passage:     reading.Passage,
				IsCompleted: progress.HasSection(id),
			}}
		}
	}
	return nil
}
