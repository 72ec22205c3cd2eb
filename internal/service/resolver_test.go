package service

import (
	"testing"

	"kindled/internal/models"
)

func TestResolveSectionsCycling(t *testing.T) {
	plan := twoListPlan()
	userPlan := &models.UserPlan{
		ListPositions: map[string]int{"gospels": 3, "james": 0},
	}
	progress := &models.DailyProgress{CompletedSections: []string{"gospels:3"}}

	sections := ResolveSections(&plan, userPlan, progress)
	if len(sections) != 2 {
		t.Fatalf("ResolveSections() returned %d sections, want 2", len(sections))
	}

	if sections[0].ID != "gospels:3" || sections[0].Passage != "John 4" {
		t.Errorf("gospels section = %+v, want id gospels:3 passage John 4", sections[0])
	}
	if !sections[0].IsCompleted {
		t.Error("gospels:3 should be marked completed")
	}
	if sections[1].ID != "james:0" || sections[1].Passage != "James 1" {
		t.Errorf("james section = %+v, want id james:0 passage James 1", sections[1])
	}
	if sections[1].IsCompleted {
		t.Error("james:0 should not be marked completed")
	}
}

func TestResolveSectionsSequential(t *testing.T) {
	t.Run("legacy chapters per day", func(t *testing.T) {
		plan := models.ReadingPlan{
			DurationDays: 90,
			Structure:    models.Sequential{ChaptersPerDay: 13},
		}
		userPlan := &models.UserPlan{CurrentDay: 2}

		sections := ResolveSections(&plan, userPlan, nil)
		if len(sections) != 1 {
			t.Fatalf("got %d sections, want 1", len(sections))
		}
		if sections[0].ID != "day-2" {
			t.Errorf("id = %q, want day-2", sections[0].ID)
		}
		if sections[0].Passage != "Chapters 14-26" {
			t.Errorf("passage = %q, want Chapters 14-26", sections[0].Passage)
		}
	})

	t.Run("modern explicit readings", func(t *testing.T) {
		plan := models.ReadingPlan{
			DurationDays: 2,
			Structure: models.Sequential{Readings: []models.DayReading{
				{Day: 1, Sections: []models.DaySection{{ID: "reading", Passages: []string{"Matthew 1", "Matthew 2"}}}},
			}},
		}
		userPlan := &models.UserPlan{CurrentDay: 1}

		sections := ResolveSections(&plan, userPlan, nil)
		if len(sections) != 1 {
			t.Fatalf("got %d sections, want 1", len(sections))
		}
		if sections[0].Passage != "Matthew 1, Matthew 2" {
			t.Errorf("passage = %q", sections[0].Passage)
		}
	})

	t.Run("first labeled section names the day", func(t *testing.T) {
		plan := models.ReadingPlan{
			DurationDays: 1,
			Structure: models.Sequential{Readings: []models.DayReading{
				{Day: 1, Sections: []models.DaySection{
					{ID: "morning", Label: "Morning", Passages: []string{"Psalms 1"}},
					{ID: "evening", Label: "Evening", Passages: []string{"Psalms 2"}},
				}},
			}},
		}
		userPlan := &models.UserPlan{CurrentDay: 1}

		sections := ResolveSections(&plan, userPlan, nil)
		if len(sections) != 1 {
			t.Fatalf("got %d sections, want 1", len(sections))
		}
		if sections[0].Label != "Morning" {
			t.Errorf("label = %q, want Morning", sections[0].Label)
		}
		if sections[0].Passage != "Psalms 1, Psalms 2" {
			t.Errorf("passage = %q", sections[0].Passage)
		}
	})

	t.Run("day beyond schedule", func(t *testing.T) {
		plan := models.ReadingPlan{
			Structure: models.Sequential{Readings: []models.DayReading{{Day: 1}}},
		}
		userPlan := &models.UserPlan{CurrentDay: 5}

		if sections := ResolveSections(&plan, userPlan, nil); len(sections) != 0 {
			t.Errorf("got %d sections for undefined day, want 0", len(sections))
		}
	})
}

func TestResolveSectionsSectionalDayIsolation(t *testing.T) {
	plan := sectionalThreeDayPlan()

	// A completion recorded on day 1 must not leak into day 2 even though
	// the raw section ids repeat every day.
	progress := &models.DailyProgress{CompletedSections: []string{"day1-ot"}}

	day1 := ResolveSections(&plan, &models.UserPlan{CurrentDay: 1}, progress)
	day2 := ResolveSections(&plan, &models.UserPlan{CurrentDay: 2}, progress)

	if len(day1) != 2 || len(day2) != 2 {
		t.Fatalf("got %d/%d sections, want 2/2", len(day1), len(day2))
	}
	if !day1[0].IsCompleted {
		t.Error("day1-ot should be completed on day 1")
	}
	if day2[0].IsCompleted {
		t.Error("day 2 ot section inherited day 1's completion")
	}
	if day2[0].ID != "day2-ot" {
		t.Errorf("day 2 ot id = %q, want day2-ot", day2[0].ID)
	}
}

func TestResolveSectionsWeekly(t *testing.T) {
	plan := models.ReadingPlan{
		DurationDays: 10,
		Structure: models.WeeklySectional{
			TotalWeeks:      2,
			ReadingsPerWeek: 5,
			Categories: []models.WeekCategory{
				{ID: "psalm", Label: "Psalm", DayOfWeek: 1},
				{ID: "gospel", Label: "Gospel", DayOfWeek: 2},
			},
			Weeks: []models.WeekReadings{
				{Week: 1, Readings: []models.WeekReading{
					{DayOfWeek: 1, CategoryID: "psalm", Passage: "Psalms 1"},
					{DayOfWeek: 2, CategoryID: "gospel", Passage: "Luke 1"},
				}},
				{Week: 2, Readings: []models.WeekReading{
					{DayOfWeek: 1, CategoryID: "psalm", Passage: "Psalms 2"},
				}},
			},
		},
	}

	tests := []struct {
		name        string
		day         int
		wantID      string
		wantPassage string
		wantLabel   string
	}{
		{"week 1 day 2", 2, "week1-day2", "Luke 1", "Gospel"},
		{"week 2 day 1", 6, "week2-day1", "Psalms 2", "Psalm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := ResolveSections(&plan, &models.UserPlan{CurrentDay: tt.day}, nil)
			if len(sections) != 1 {
				t.Fatalf("got %d sections, want 1", len(sections))
			}
			if sections[0].ID != tt.wantID || sections[0].Passage != tt.wantPassage || sections[0].Label != tt.wantLabel {
				t.Errorf("section = %+v, want id %q passage %q label %q",
					sections[0], tt.wantID, tt.wantPassage, tt.wantLabel)
			}
		})
	}

	t.Run("unscheduled slot", func(t *testing.T) {
		// Week 2 has no reading for its day 3
		if sections := ResolveSections(&plan, &models.UserPlan{CurrentDay: 8}, nil); len(sections) != 0 {
			t.Errorf("got %d sections, want 0", len(sections))
		}
	})
}

func TestResolveSectionsFreeReading(t *testing.T) {
	plan := freePlan()
	if sections := ResolveSections(&plan, &models.UserPlan{}, nil); sections != nil {
		t.Errorf("free reading resolved %d sections, want none", len(sections))
	}
}
