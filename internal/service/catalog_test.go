package service

import (
	"context"
	"testing"

	"kindled/internal/models"
	"kindled/internal/scripture"
)

func TestSeedBuiltinPlansIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if err := env.catalogSvc.SeedBuiltinPlans(ctx); err != nil {
		t.Fatalf("SeedBuiltinPlans() error: %v", err)
	}
	first, err := env.catalogSvc.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans() error: %v", err)
	}
	if len(first) != 6 {
		t.Fatalf("seeded %d plans, want 6", len(first))
	}

	// Seeding again must not duplicate anything
	if err := env.catalogSvc.SeedBuiltinPlans(ctx); err != nil {
		t.Fatalf("SeedBuiltinPlans() second run error: %v", err)
	}
	second, err := env.catalogSvc.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans() error: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("second seed grew the catalog to %d plans", len(second))
	}
}

func TestBuiltinPlanShapes(t *testing.T) {
	plans := builtinPlans()

	byName := make(map[string]models.ReadingPlan, len(plans))
	for _, p := range plans {
		byName[p.Name] = p
	}

	t.Run("ten lists covers the canon", func(t *testing.T) {
		cycling, ok := byName["Ten Lists"].Structure.(models.CyclingLists)
		if !ok {
			t.Fatal("Ten Lists is not a cycling plan")
		}
		if len(cycling.Lists) != 10 {
			t.Fatalf("got %d lists, want 10", len(cycling.Lists))
		}
		total := 0
		for _, list := range cycling.Lists {
			if list.TotalChapters == 0 {
				t.Errorf("list %s has no chapters", list.ID)
			}
			total += list.TotalChapters
		}
		if total != scripture.TotalChapters(scripture.BookTypeBible) {
			t.Errorf("lists cover %d chapters, want %d", total, scripture.TotalChapters(scripture.BookTypeBible))
		}
	})

	t.Run("gospel plan schedules every chapter", func(t *testing.T) {
		plan := byName["Gospels in 30 Days"]
		sequential, ok := plan.Structure.(models.Sequential)
		if !ok {
			t.Fatal("gospel plan is not sequential")
		}
		if plan.DurationDays != len(sequential.Readings) {
			t.Errorf("duration %d does not match %d readings", plan.DurationDays, len(sequential.Readings))
		}
		chapters := 0
		for _, r := range sequential.Readings {
			for _, sec := range r.Sections {
				chapters += len(sec.Passages)
			}
		}
		// Matthew 28 + Mark 16 + Luke 24 + John 21
		if chapters != 89 {
			t.Errorf("scheduled %d chapters, want 89", chapters)
		}
	})

	t.Run("sectional plan has three sections per day", func(t *testing.T) {
		plan := byName["Balanced Diet"]
		sectional, ok := plan.Structure.(models.Sectional)
		if !ok {
			t.Fatal("balanced diet is not sectional")
		}
		if len(sectional.Readings) != plan.DurationDays {
			t.Fatalf("got %d readings, want %d", len(sectional.Readings), plan.DurationDays)
		}
		for _, r := range sectional.Readings {
			if len(r.Sections) != 3 {
				t.Fatalf("day %d has %d sections, want 3", r.Day, len(r.Sections))
			}
		}
	})

	t.Run("weekly plan fills every slot", func(t *testing.T) {
		weekly, ok := byName["Twelve Week Sampler"].Structure.(models.WeeklySectional)
		if !ok {
			t.Fatal("sampler is not weekly sectional")
		}
		if len(weekly.Weeks) != weekly.TotalWeeks {
			t.Fatalf("got %d weeks, want %d", len(weekly.Weeks), weekly.TotalWeeks)
		}
		for _, w := range weekly.Weeks {
			if len(w.Readings) != weekly.ReadingsPerWeek {
				t.Errorf("week %d has %d readings, want %d", w.Week, len(w.Readings), weekly.ReadingsPerWeek)
			}
		}
	})

	t.Run("structures survive a storage round trip", func(t *testing.T) {
		for _, plan := range plans {
			data, err := models.MarshalStructure(plan.Structure)
			if err != nil {
				t.Fatalf("marshal %s: %v", plan.Name, err)
			}
			decoded, err := models.UnmarshalStructure(data)
			if err != nil {
				t.Fatalf("unmarshal %s: %v", plan.Name, err)
			}
			if decoded.Type() != plan.Structure.Type() {
				t.Errorf("%s round-tripped as %s", plan.Name, decoded.Type())
			}
		}
	})
}

func TestStartPlanZeroInit(t *testing.T) {
	env := newTestEnv(t)

	t.Run("cycling", func(t *testing.T) {
		plan := env.createPlan(t, twoListPlan())
		up := env.startPlan(t, "u1", plan.ID)
		if up.CurrentDay != 0 {
			t.Errorf("current day = %d, want 0", up.CurrentDay)
		}
		if len(up.ListPositions) != 2 || up.ListPositions["gospels"] != 0 || up.ListPositions["james"] != 0 {
			t.Errorf("list positions = %v, want both at 0", up.ListPositions)
		}
		if up.StartDate != "2026-08-30" {
			t.Errorf("start date = %q", up.StartDate)
		}
	})

	t.Run("day based", func(t *testing.T) {
		plan := env.createPlan(t, sectionalThreeDayPlan())
		up := env.startPlan(t, "u2", plan.ID)
		if up.CurrentDay != 1 {
			t.Errorf("current day = %d, want 1", up.CurrentDay)
		}
	})

	t.Run("free reading", func(t *testing.T) {
		plan := env.createPlan(t, freePlan())
		up := env.startPlan(t, "u3", plan.ID)
		if up.FreeReadingTotal != 0 || up.CurrentDay != 0 {
			t.Errorf("free plan init = %+v, want zeroed tracking", up)
		}
	})
}

func TestArchiveAndRestore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	plan := env.createPlan(t, twoListPlan())
	up := env.startPlan(t, "u1", plan.ID)

	active, err := env.userPlanSvc.ActivePlans(ctx, "u1")
	if err != nil {
		t.Fatalf("ActivePlans() error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d active plans, want 1", len(active))
	}

	if _, err := env.userPlanSvc.Archive(ctx, "u1", up.ID); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	active, _ = env.userPlanSvc.ActivePlans(ctx, "u1")
	if len(active) != 0 {
		t.Errorf("got %d active plans after archive, want 0", len(active))
	}

	if _, err := env.userPlanSvc.Restore(ctx, "u1", up.ID); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	active, _ = env.userPlanSvc.ActivePlans(ctx, "u1")
	if len(active) != 1 {
		t.Errorf("got %d active plans after restore, want 1", len(active))
	}
}
