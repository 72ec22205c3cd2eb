package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"kindled/internal/models"
	"kindled/internal/repository"
	"kindled/internal/store"
)

// fixedNow pins the calendar date so progress rows land on a known key
var fixedNow = func() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

type testEnv struct {
	store     store.Store
	plans     *repository.PlanRepository
	userPlans *repository.UserPlanRepository
	progress  *repository.ProgressRepository
	chapters  *repository.FreeReadingRepository

	progressSvc *ProgressService
	statsSvc    *StatsService
	freeSvc     *FreeReadingService
	userPlanSvc *UserPlanService
	catalogSvc  *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, store.NewMemoryStore())
}

func newTestEnvWithStore(t *testing.T, st store.Store) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		store:     st,
		plans:     repository.NewPlanRepository(st),
		userPlans: repository.NewUserPlanRepository(st),
		progress:  repository.NewProgressRepository(st),
		chapters:  repository.NewFreeReadingRepository(st),
	}
	env.progressSvc = NewProgressService(env.userPlans, env.plans, env.progress, logger, fixedNow, time.UTC)
	env.statsSvc = NewStatsService(env.userPlans, env.plans, env.progress, logger, 1, fixedNow, time.UTC)
	env.freeSvc = NewFreeReadingService(env.userPlans, env.plans, env.chapters, env.progressSvc, logger)
	env.userPlanSvc = NewUserPlanService(env.userPlans, env.plans, logger, fixedNow, time.UTC)
	env.catalogSvc = NewCatalogService(env.plans, logger)
	return env
}

func (e *testEnv) createPlan(t *testing.T, plan models.ReadingPlan) *models.ReadingPlan {
	t.Helper()
	created, err := e.plans.Create(context.Background(), &plan)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return created
}

func (e *testEnv) startPlan(t *testing.T, userID, planID string) *models.UserPlan {
	t.Helper()
	up, err := e.userPlanSvc.StartPlan(context.Background(), userID, planID)
	if err != nil {
		t.Fatalf("start plan: %v", err)
	}
	return up
}

// twoListPlan is a small cycling structure: john (21 chapters) and a short
// five-chapter list that wraps quickly
func twoListPlan() models.ReadingPlan {
	return models.ReadingPlan{
		Name: "Two Lists",
		Structure: models.CyclingLists{Lists: []models.ReadingList{
			{
				ID:    "gospels",
				Label: "Gospels",
				Books: []models.BookChapters{
					{Book: "John", Chapters: chapterNumbers(21)},
				},
				TotalChapters: 21,
			},
			{
				ID:    "james",
				Label: "James",
				Books: []models.BookChapters{
					{Book: "James", Chapters: chapterNumbers(5)},
				},
				TotalChapters: 5,
			},
		}},
	}
}

func sectionalThreeDayPlan() models.ReadingPlan {
	readings := make([]models.DayReading, 0, 3)
	for day := 1; day <= 3; day++ {
		readings = append(readings, models.DayReading{
			Day: day,
			Sections: []models.DaySection{
				{ID: "ot", Label: "Old Testament", Passages: []string{"Genesis 1-2"}},
				{ID: "nt", Label: "New Testament", Passages: []string{"Matthew 1"}},
			},
		})
	}
	return models.ReadingPlan{
		Name:         "Three Day Sectional",
		DurationDays: 3,
		Structure:    models.Sectional{Readings: readings},
	}
}

func freePlan() models.ReadingPlan {
	return models.ReadingPlan{
		Name: "Open Reading",
		Structure: models.FreeReading{
			AllowNotes: true,
			BookType:   "bible",
		},
	}
}
