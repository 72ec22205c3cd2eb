package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kindled/internal/identity"
	"kindled/internal/models"
	"kindled/internal/repository"
	"kindled/internal/store"
)

// UserPlanService starts and retires per-user plan instances
type UserPlanService struct {
	userPlans *repository.UserPlanRepository
	plans     *repository.PlanRepository
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
}

// NewUserPlanService creates a new user-plan service
func NewUserPlanService(
	userPlans *repository.UserPlanRepository,
	plans *repository.PlanRepository,
	logger *slog.Logger,
	now func() time.Time,
	loc *time.Location,
) *UserPlanService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &UserPlanService{
		userPlans: userPlans,
		plans:     plans,
		logger:    logger,
		now:       now,
		loc:       loc,
	}
}

// StartPlan creates a user plan at the beginning of the named plan, with
// tracking state zero-initialized for the plan's structure shape
func (s *UserPlanService) StartPlan(ctx context.Context, userID, planID string) (*models.UserPlan, error) {
	if userID == "" {
		return nil, identity.ErrUnauthenticated
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	up := &models.UserPlan{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: s.now().In(s.loc).Format("2006-01-02"),
	}

	switch structure := plan.Structure.(type) {
	case models.CyclingLists:
		up.ListPositions = make(map[string]int, len(structure.Lists))
		for _, list := range structure.Lists {
			up.ListPositions[list.ID] = 0
		}
	case models.FreeReading:
		up.FreeReadingTotal = 0
	default:
		up.CurrentDay = 1
	}

	created, err := s.userPlans.Create(ctx, up)
	if err != nil {
		return nil, fmt.Errorf("create user plan: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("started plan", "user_id", userID, "plan", plan.Name, "user_plan_id", created.ID)
	}
	return created, nil
}

// Archive hides a user plan from active listings without deleting its
// progress history
func (s *UserPlanService) Archive(ctx context.Context, userID, userPlanID string) (*models.UserPlan, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}
	return s.userPlans.SetArchived(ctx, up.ID, true)
}

// Restore brings an archived user plan back into active listings
func (s *UserPlanService) Restore(ctx context.Context, userID, userPlanID string) (*models.UserPlan, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}
	return s.userPlans.SetArchived(ctx, up.ID, false)
}

// ActivePlans lists the user's unarchived plans
func (s *UserPlanService) ActivePlans(ctx context.Context, userID string) ([]models.UserPlan, error) {
	if userID == "" {
		return nil, identity.ErrUnauthenticated
	}
	return s.userPlans.ListActive(ctx, userID)
}

func (s *UserPlanService) authorize(ctx context.Context, userID, userPlanID string) (*models.UserPlan, error) {
	if userID == "" {
		return nil, identity.ErrUnauthenticated
	}
	up, err := s.userPlans.GetByID(ctx, userPlanID)
	if err != nil {
		return nil, fmt.Errorf("load user plan: %w", err)
	}
	if up.UserID != userID {
		return nil, fmt.Errorf("user plan %s: %w", userPlanID, store.ErrNotFound)
	}
	return up, nil
}
