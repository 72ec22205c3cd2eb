package service

import (
	"math"
	"regexp"
	"strconv"

	"kindled/internal/models"
	"kindled/internal/scripture"
)

var (
	sequentialIDPattern = regexp.MustCompile(`^day-(\d+)$`)
	sectionalIDPattern  = regexp.MustCompile(`^day(\d+)-(.+)$`)
	weeklyIDPattern     = regexp.MustCompile(`^week(\d+)-day(\d+)$`)
)

// ChaptersRead counts the whole chapters represented by a progress row's
// completed sections. Cycling lists map one section to one chapter; the
// day-structured variants parse their section ids back into plan positions
// and sum the referenced passages. Counting never fails: unparseable ids
// fall back to one chapter per section.
func ChaptersRead(progress *models.DailyProgress, plan *models.ReadingPlan) int {
	if progress == nil || len(progress.CompletedSections) == 0 {
		return 0
	}
	if plan == nil || plan.Structure == nil {
		return len(progress.CompletedSections)
	}

	switch structure := plan.Structure.(type) {
	case models.Sequential:
		return countSequential(progress, structure)
	case models.Sectional:
		return countSectional(progress, structure)
	case models.WeeklySectional:
		return countWeekly(progress, structure)
	default:
		// Cycling lists and free reading: one section is one chapter
		return len(progress.CompletedSections)
	}
}

func countSequential(progress *models.DailyProgress, structure models.Sequential) int {
	if len(structure.Readings) == 0 {
		// Legacy plans carry a flat chapters-per-day constant
		if structure.ChaptersPerDay > 0 {
			return structure.ChaptersPerDay * len(progress.CompletedSections)
		}
		return len(progress.CompletedSections)
	}

	total := 0
	for _, id := range progress.CompletedSections {
		m := sequentialIDPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		reading, ok := models.ReadingFor(structure.Readings, day)
		if !ok {
			continue
		}
		for _, sec := range reading.Sections {
			for _, p := range sec.Passages {
				total += scripture.CountChapters(p)
			}
		}
	}
	if total == 0 {
		return len(progress.CompletedSections)
	}
	return total
}

func countSectional(progress *models.DailyProgress, structure models.Sectional) int {
	total := 0
	for _, id := range progress.CompletedSections {
		m := sectionalIDPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		sectionID := m[2]

		reading, ok := models.ReadingFor(structure.Readings, day)
		if !ok {
			continue
		}
		for _, sec := range reading.Sections {
			if sec.ID != sectionID {
				continue
			}
			for _, p := range sec.Passages {
				total += scripture.CountChapters(p)
			}
		}
	}
	if total == 0 {
		return len(progress.CompletedSections)
	}
	return total
}

func countWeekly(progress *models.DailyProgress, structure models.WeeklySectional) int {
	total := 0
	for _, id := range progress.CompletedSections {
		m := weeklyIDPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		week, _ := strconv.Atoi(m[1])
		dayInWeek, _ := strconv.Atoi(m[2])

		for _, w := range structure.Weeks {
			if w.Week != week {
				continue
			}
			for _, reading := range w.Readings {
				if reading.DayOfWeek == dayInWeek {
					total += scripture.CountChapters(reading.Passage)
				}
			}
		}
	}
	if total == 0 {
		return len(progress.CompletedSections)
	}
	return total
}

// CalculatePlanProgress derives the displayed progress number for a user
// plan. Free reading returns the raw running chapter total (there is no
// bounded denominator); every other variant returns a 0-100 percentage.
// Cycling plans report the furthest-advanced list, not an average.
func CalculatePlanProgress(userPlan *models.UserPlan, plan *models.ReadingPlan) int {
	if userPlan == nil || plan == nil || plan.Structure == nil {
		return 0
	}

	switch structure := plan.Structure.(type) {
	case models.FreeReading:
		return userPlan.FreeReadingTotal

	case models.CyclingLists:
		maxPosition := 0
		longestList := 0
		for _, list := range structure.Lists {
			if pos := userPlan.PositionFor(list.ID); pos > maxPosition {
				maxPosition = pos
			}
			if list.TotalChapters > longestList {
				longestList = list.TotalChapters
			}
		}
		if longestList == 0 {
			return 0
		}
		return clampPercent(roundPercent(maxPosition, longestList))

	case models.WeeklySectional:
		totalUnits := structure.TotalWeeks * structure.ReadingsPerWeek
		if totalUnits == 0 {
			return 0
		}
		return clampPercent(roundPercent(userPlan.CurrentDay-1, totalUnits))

	default:
		if plan.DurationDays == 0 {
			return 0
		}
		return clampPercent(roundPercent(userPlan.CurrentDay-1, plan.DurationDays))
	}
}

// IsPlanAtFinalDay reports whether the day pointer has reached the plan's
// last day. Cycling and free-reading plans have no terminal day; unbounded
// plans never reach one.
func IsPlanAtFinalDay(userPlan *models.UserPlan, plan *models.ReadingPlan) bool {
	if userPlan == nil || plan == nil || plan.Structure == nil {
		return false
	}

	switch plan.Structure.(type) {
	case models.CyclingLists, models.FreeReading:
		return false
	}

	if plan.DurationDays <= 0 {
		return false
	}
	return userPlan.CurrentDay >= plan.DurationDays
}

func roundPercent(numerator, denominator int) int {
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
