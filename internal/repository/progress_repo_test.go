package repository

import (
	"context"
	"errors"
	"testing"

	"kindled/internal/models"
	"kindled/internal/store"
)

func TestProgressRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, &models.DailyProgress{
		UserPlanID:        "up1",
		DayNumber:         3,
		Date:              "2026-08-30",
		CompletedSections: []string{"day3-ot"},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() should assign an id")
	}

	byDate, err := repo.GetForDate(ctx, "up1", "2026-08-30")
	if err != nil {
		t.Fatalf("GetForDate() error: %v", err)
	}
	if !byDate.HasSection("day3-ot") {
		t.Error("GetForDate() lost the completed section")
	}

	byDay, err := repo.GetForDay(ctx, "up1", 3)
	if err != nil {
		t.Fatalf("GetForDay() error: %v", err)
	}
	if byDay.ID != created.ID {
		t.Errorf("GetForDay() id = %q, want %q", byDay.ID, created.ID)
	}

	saved, err := repo.Save(ctx, created.ID, []string{"day3-ot", "day3-nt"}, true)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !saved.IsComplete || len(saved.CompletedSections) != 2 {
		t.Errorf("Save() = %+v, want complete with two sections", saved)
	}
	if saved.DayNumber != 3 {
		t.Errorf("Save() day number = %d, want the creation-time 3", saved.DayNumber)
	}
}

func TestProgressRepositoryDuplicateDate(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(store.NewMemoryStore())

	if _, err := repo.Create(ctx, &models.DailyProgress{UserPlanID: "up1", Date: "2026-08-30"}); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	_, err := repo.Create(ctx, &models.DailyProgress{UserPlanID: "up1", Date: "2026-08-30", DayNumber: 2})
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("second Create() error = %v, want ErrDuplicateKey", err)
	}
}

func TestProgressRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(store.NewMemoryStore())

	if _, err := repo.GetForDate(ctx, "up1", "2026-08-30"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetForDate() error = %v, want ErrNotFound", err)
	}
}

func TestFreeReadingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFreeReadingRepository(store.NewMemoryStore())

	if err := repo.Add(ctx, "up1", "John", 1); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := repo.Add(ctx, "up1", "John", 1); !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("duplicate Add() error = %v, want ErrDuplicateKey", err)
	}

	if err := repo.AddChapters(ctx, "up1", "Mark", []int{2, 1, 3}); err != nil {
		t.Fatalf("AddChapters() error: %v", err)
	}

	chapters, err := repo.ListChapters(ctx, "up1")
	if err != nil {
		t.Fatalf("ListChapters() error: %v", err)
	}
	if len(chapters) != 4 {
		t.Fatalf("ListChapters() returned %d chapters, want 4", len(chapters))
	}
	// Sorted by book then chapter
	if chapters[0].Book != "John" || chapters[1].Book != "Mark" || chapters[1].Chapter != 1 {
		t.Errorf("ListChapters() order wrong: %+v", chapters)
	}

	if err := repo.RemoveBook(ctx, "up1", "Mark"); err != nil {
		t.Fatalf("RemoveBook() error: %v", err)
	}
	chapters, _ = repo.ListChapters(ctx, "up1")
	if len(chapters) != 1 || chapters[0].Book != "John" {
		t.Errorf("after RemoveBook remaining = %+v, want only John 1", chapters)
	}

	if err := repo.Remove(ctx, "up1", "John", 1); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	chapters, _ = repo.ListChapters(ctx, "up1")
	if len(chapters) != 0 {
		t.Errorf("after Remove remaining = %+v, want none", chapters)
	}
}

func TestUserPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserPlanRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, &models.UserPlan{
		UserID:        "user-1",
		PlanID:        "plan-1",
		StartDate:     "2026-08-30",
		ListPositions: map[string]int{"L1": 0, "L2": 0},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := repo.SaveListPositions(ctx, created.ID, map[string]int{"L1": 4, "L2": 0})
	if err != nil {
		t.Fatalf("SaveListPositions() error: %v", err)
	}
	if updated.PositionFor("L1") != 4 {
		t.Errorf("PositionFor(L1) = %d, want 4", updated.PositionFor("L1"))
	}

	completed, err := repo.SetCompleted(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("SetCompleted() error: %v", err)
	}
	if !completed.IsCompleted || completed.CompletedAt == nil {
		t.Error("SetCompleted(true) should set flag and timestamp")
	}

	reopened, err := repo.SetCompleted(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("SetCompleted(false) error: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Error("SetCompleted(false) should clear flag and timestamp")
	}

	active, err := repo.ListActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListActive() error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ListActive() returned %d plans, want 1", len(active))
	}

	if _, err := repo.SetArchived(ctx, created.ID, true); err != nil {
		t.Fatalf("SetArchived() error: %v", err)
	}
	active, _ = repo.ListActive(ctx, "user-1")
	if len(active) != 0 {
		t.Errorf("ListActive() after archive returned %d plans, want 0", len(active))
	}
}
