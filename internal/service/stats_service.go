package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kindled/internal/identity"
	"kindled/internal/models"
	"kindled/internal/repository"
	"kindled/internal/store"
)

// StatsService answers read-side questions about a user's progress: chapter
// counts for today and whether the daily streak minimum has been met.
type StatsService struct {
	userPlans      *repository.UserPlanRepository
	plans          *repository.PlanRepository
	progress       *repository.ProgressRepository
	logger         *slog.Logger
	streakMinimum  int
	now            func() time.Time
	loc            *time.Location
}

// NewStatsService creates a new stats service. streakMinimum is the number
// of chapters a day must reach to count toward the streak.
func NewStatsService(
	userPlans *repository.UserPlanRepository,
	plans *repository.PlanRepository,
	progress *repository.ProgressRepository,
	logger *slog.Logger,
	streakMinimum int,
	now func() time.Time,
	loc *time.Location,
) *StatsService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{
		userPlans:     userPlans,
		plans:         plans,
		progress:      progress,
		logger:        logger,
		streakMinimum: streakMinimum,
		now:           now,
		loc:           loc,
	}
}

func (s *StatsService) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// ChaptersReadToday counts the chapters completed today under one user plan
func (s *StatsService) ChaptersReadToday(ctx context.Context, userID, userPlanID string) (int, error) {
	if userID == "" {
		return 0, identity.ErrUnauthenticated
	}
	up, err := s.userPlans.GetByID(ctx, userPlanID)
	if err != nil {
		return 0, fmt.Errorf("load user plan: %w", err)
	}
	if up.UserID != userID {
		return 0, fmt.Errorf("user plan %s: %w", userPlanID, store.ErrNotFound)
	}

	plan, err := s.plans.GetByID(ctx, up.PlanID)
	if err != nil {
		return 0, fmt.Errorf("load plan: %w", err)
	}
	return s.chaptersForPlanToday(ctx, up.ID, plan)
}

// TotalChaptersToday sums today's completed chapters across all of the
// user's active plans
func (s *StatsService) TotalChaptersToday(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, identity.ErrUnauthenticated
	}

	active, err := s.userPlans.ListActive(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list active plans: %w", err)
	}

	total := 0
	for _, up := range active {
		plan, err := s.plans.GetByID(ctx, up.PlanID)
		if err != nil {
			// A plan row vanishing under a live user plan is a data
			// problem, not a reason to fail the whole rollup.
			if s.logger != nil {
				s.logger.Warn("skipping user plan with missing plan",
					"user_plan_id", up.ID, "plan_id", up.PlanID, "error", err)
			}
			continue
		}
		n, err := s.chaptersForPlanToday(ctx, up.ID, plan)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// MeetsStreakMinimum reports whether today's total reading keeps the streak
// alive
func (s *StatsService) MeetsStreakMinimum(ctx context.Context, userID string) (bool, error) {
	total, err := s.TotalChaptersToday(ctx, userID)
	if err != nil {
		return false, err
	}
	return total >= s.streakMinimum, nil
}

func (s *StatsService) chaptersForPlanToday(ctx context.Context, userPlanID string, plan *models.ReadingPlan) (int, error) {
	progress, err := s.progress.GetForDate(ctx, userPlanID, s.today())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load progress: %w", err)
	}
	return ChaptersRead(progress, plan), nil
}
