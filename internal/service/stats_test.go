package service

import (
	"context"
	"testing"

	"kindled/internal/models"
)

func TestChaptersRead(t *testing.T) {
	sectionalPlan := sectionalThreeDayPlan()

	tests := []struct {
		name     string
		progress *models.DailyProgress
		plan     models.ReadingPlan
		want     int
	}{
		{
			name:     "nil progress",
			progress: nil,
			plan:     sectionalPlan,
			want:     0,
		},
		{
			name:     "cycling counts one per section",
			progress: &models.DailyProgress{CompletedSections: []string{"gospels:0", "james:2"}},
			plan:     twoListPlan(),
			want:     2,
		},
		{
			name: "sectional sums passage spans",
			// Genesis 1-2 is two chapters, Matthew 1 is one
			progress: &models.DailyProgress{CompletedSections: []string{"day1-ot", "day1-nt"}},
			plan:     sectionalPlan,
			want:     3,
		},
		{
			name:     "sectional partial day",
			progress: &models.DailyProgress{CompletedSections: []string{"day2-nt"}},
			plan:     sectionalPlan,
			want:     1,
		},
		{
			name:     "legacy sequential multiplies pace",
			progress: &models.DailyProgress{CompletedSections: []string{"day-1"}},
			plan: models.ReadingPlan{
				Structure: models.Sequential{ChaptersPerDay: 13},
			},
			want: 13,
		},
		{
			name:     "modern sequential sums the day's passages",
			progress: &models.DailyProgress{CompletedSections: []string{"day-1"}},
			plan: models.ReadingPlan{
				Structure: models.Sequential{Readings: []models.DayReading{
					{Day: 1, Sections: []models.DaySection{{
						ID:       "reading",
						Passages: []string{"Matthew 1-3", "Psalms 5"},
					}}},
				}},
			},
			want: 4,
		},
		{
			name:     "weekly counts the slot's passage",
			progress: &models.DailyProgress{CompletedSections: []string{"week1-day2"}},
			plan: models.ReadingPlan{
				Structure: models.WeeklySectional{
					TotalWeeks:      1,
					ReadingsPerWeek: 5,
					Weeks: []models.WeekReadings{
						{Week: 1, Readings: []models.WeekReading{
							{DayOfWeek: 2, CategoryID: "law", Passage: "Genesis 1-4"},
						}},
					},
				},
			},
			want: 4,
		},
		{
			name:     "unparseable ids fall back to raw count",
			progress: &models.DailyProgress{CompletedSections: []string{"mystery", "entries"}},
			plan:     sectionalPlan,
			want:     2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChaptersRead(tt.progress, &tt.plan); got != tt.want {
				t.Errorf("ChaptersRead() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculatePlanProgress(t *testing.T) {
	tests := []struct {
		name     string
		userPlan models.UserPlan
		plan     models.ReadingPlan
		want     int
	}{
		{
			name:     "free reading returns raw total",
			userPlan: models.UserPlan{FreeReadingTotal: 42},
			plan:     freePlan(),
			want:     42,
		},
		{
			name: "cycling tracks the furthest list",
			userPlan: models.UserPlan{
				ListPositions: map[string]int{"gospels": 7, "james": 2},
			},
			plan: twoListPlan(),
			// 7 of 21 chapters in the longest list
			want: 33,
		},
		{
			name:     "cycling at start",
			userPlan: models.UserPlan{},
			plan:     twoListPlan(),
			want:     0,
		},
		{
			name:     "duration based midway",
			userPlan: models.UserPlan{CurrentDay: 2},
			plan:     sectionalThreeDayPlan(),
			want:     33,
		},
		{
			name:     "duration based at final day",
			userPlan: models.UserPlan{CurrentDay: 3},
			plan:     sectionalThreeDayPlan(),
			want:     67,
		},
		{
			name:     "unbounded sequential reports zero",
			userPlan: models.UserPlan{CurrentDay: 50},
			plan:     models.ReadingPlan{Structure: models.Sequential{ChaptersPerDay: 1}},
			want:     0,
		},
		{
			name:     "weekly uses week times readings",
			userPlan: models.UserPlan{CurrentDay: 31},
			plan: models.ReadingPlan{
				DurationDays: 60,
				Structure: models.WeeklySectional{
					TotalWeeks:      12,
					ReadingsPerWeek: 5,
				},
			},
			want: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePlanProgress(&tt.userPlan, &tt.plan); got != tt.want {
				t.Errorf("CalculatePlanProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsPlanAtFinalDay(t *testing.T) {
	tests := []struct {
		name     string
		userPlan models.UserPlan
		plan     models.ReadingPlan
		want     bool
	}{
		{"before final day", models.UserPlan{CurrentDay: 2}, sectionalThreeDayPlan(), false},
		{"at final day", models.UserPlan{CurrentDay: 3}, sectionalThreeDayPlan(), true},
		{"cycling never final", models.UserPlan{CurrentDay: 100}, twoListPlan(), false},
		{"free reading never final", models.UserPlan{}, freePlan(), false},
		{"unbounded never final", models.UserPlan{CurrentDay: 100}, models.ReadingPlan{Structure: models.Sequential{ChaptersPerDay: 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlanAtFinalDay(&tt.userPlan, &tt.plan); got != tt.want {
				t.Errorf("IsPlanAtFinalDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalChaptersToday(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cycling := env.createPlan(t, twoListPlan())
	sectional := env.createPlan(t, sectionalThreeDayPlan())
	upCycling := env.startPlan(t, "u1", cycling.ID)
	upSectional := env.startPlan(t, "u1", sectional.ID)

	if _, err := env.progressSvc.MarkChapterRead(ctx, "u1", upCycling.ID, "gospels", 0); err != nil {
		t.Fatalf("MarkChapterRead() error: %v", err)
	}
	// day1-ot is Genesis 1-2, two chapters
	if _, err := env.progressSvc.MarkSectionComplete(ctx, "u1", upSectional.ID, 1, "day1-ot", 2); err != nil {
		t.Fatalf("MarkSectionComplete() error: %v", err)
	}

	total, err := env.statsSvc.TotalChaptersToday(ctx, "u1")
	if err != nil {
		t.Fatalf("TotalChaptersToday() error: %v", err)
	}
	if total != 3 {
		t.Errorf("TotalChaptersToday() = %d, want 3", total)
	}

	ok, err := env.statsSvc.MeetsStreakMinimum(ctx, "u1")
	if err != nil {
		t.Fatalf("MeetsStreakMinimum() error: %v", err)
	}
	if !ok {
		t.Error("three chapters should meet a streak minimum of one")
	}

	// Archived plans drop out of the rollup
	if _, err := env.userPlanSvc.Archive(ctx, "u1", upSectional.ID); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	total, err = env.statsSvc.TotalChaptersToday(ctx, "u1")
	if err != nil {
		t.Fatalf("TotalChaptersToday() error: %v", err)
	}
	if total != 1 {
		t.Errorf("TotalChaptersToday() after archive = %d, want 1", total)
	}
}

func TestTotalChaptersTodayEmpty(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	total, err := env.statsSvc.TotalChaptersToday(ctx, "nobody")
	if err != nil {
		t.Fatalf("TotalChaptersToday() error: %v", err)
	}
	if total != 0 {
		t.Errorf("TotalChaptersToday() = %d, want 0", total)
	}

	ok, err := env.statsSvc.MeetsStreakMinimum(ctx, "nobody")
	if err != nil {
		t.Fatalf("MeetsStreakMinimum() error: %v", err)
	}
	if ok {
		t.Error("no reading should not meet the streak minimum")
	}
}
