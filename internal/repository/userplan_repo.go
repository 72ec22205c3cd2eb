package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kindled/internal/models"
	"kindled/internal/store"
)

// UserPlanRepository handles the per-user plan position records
type UserPlanRepository struct {
	store store.Store
}

// NewUserPlanRepository creates a new user plan repository
func NewUserPlanRepository(st store.Store) *UserPlanRepository {
	return &UserPlanRepository{store: st}
}

// GetByID retrieves a user plan by id
func (r *UserPlanRepository) GetByID(ctx context.Context, id string) (*models.UserPlan, error) {
	rec, err := r.store.Get(ctx, store.TableUserPlans, store.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	return decodeUserPlan(rec), nil
}

// ListActive retrieves a user's unarchived plans
func (r *UserPlanRepository) ListActive(ctx context.Context, userID string) ([]models.UserPlan, error) {
	recs, err := r.store.List(ctx, store.TableUserPlans, store.Filter{
		"user_id":     userID,
		"is_archived": false,
	})
	if err != nil {
		return nil, err
	}

	plans := make([]models.UserPlan, 0, len(recs))
	for _, rec := range recs {
		plans = append(plans, *decodeUserPlan(rec))
	}
	return plans, nil
}

// Create inserts a new user plan, assigning an id if absent
func (r *UserPlanRepository) Create(ctx context.Context, up *models.UserPlan) (*models.UserPlan, error) {
	if up.ID == "" {
		up.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	rec, err := r.store.Insert(ctx, store.TableUserPlans, store.Record{
		"id":                 up.ID,
		"user_id":            up.UserID,
		"plan_id":            up.PlanID,
		"start_date":         up.StartDate,
		"current_day":        up.CurrentDay,
		"list_positions":     encodeIntMap(up.ListPositions),
		"free_reading_total": up.FreeReadingTotal,
		"is_completed":       up.IsCompleted,
		"completed_at":       encodeTimePtr(up.CompletedAt),
		"is_archived":        up.IsArchived,
		"created_at":         now,
		"updated_at":         now,
	})
	if err != nil {
		return nil, err
	}
	return decodeUserPlan(rec), nil
}

// SaveListPositions persists the cycling-list chapter pointers
func (r *UserPlanRepository) SaveListPositions(ctx context.Context, id string, positions map[string]int) (*models.UserPlan, error) {
	return r.update(ctx, id, store.Record{"list_positions": encodeIntMap(positions)})
}

// SaveCurrentDay persists the day pointer
func (r *UserPlanRepository) SaveCurrentDay(ctx context.Context, id string, day int) (*models.UserPlan, error) {
	return r.update(ctx, id, store.Record{"current_day": day})
}

// SaveFreeReadingTotal persists the running free-reading chapter total
func (r *UserPlanRepository) SaveFreeReadingTotal(ctx context.Context, id string, total int) (*models.UserPlan, error) {
	return r.update(ctx, id, store.Record{"free_reading_total": total})
}

// SetCompleted flips the plan completion flag, stamping or clearing the
// completion time
func (r *UserPlanRepository) SetCompleted(ctx context.Context, id string, completed bool) (*models.UserPlan, error) {
	patch := store.Record{"is_completed": completed}
	if completed {
		patch["completed_at"] = time.Now().UTC()
	} else {
		patch["completed_at"] = nil
	}
	return r.update(ctx, id, patch)
}

// SetArchived flips the archive flag
func (r *UserPlanRepository) SetArchived(ctx context.Context, id string, archived bool) (*models.UserPlan, error) {
	return r.update(ctx, id, store.Record{"is_archived": archived})
}

func (r *UserPlanRepository) update(ctx context.Context, id string, patch store.Record) (*models.UserPlan, error) {
	patch["updated_at"] = time.Now().UTC()
	rec, err := r.store.Update(ctx, store.TableUserPlans, id, patch)
	if err != nil {
		return nil, err
	}
	return decodeUserPlan(rec), nil
}

func decodeUserPlan(rec store.Record) *models.UserPlan {
	return &models.UserPlan{
		ID:               asString(field(rec, "id")),
		UserID:           asString(field(rec, "user_id")),
		PlanID:           asString(field(rec, "plan_id")),
		StartDate:        asString(field(rec, "start_date")),
		CurrentDay:       asInt(field(rec, "current_day")),
		ListPositions:    decodeIntMap(field(rec, "list_positions")),
		FreeReadingTotal: asInt(field(rec, "free_reading_total")),
		IsCompleted:      asBool(field(rec, "is_completed")),
		CompletedAt:      asTimePtr(field(rec, "completed_at")),
		IsArchived:       asBool(field(rec, "is_archived")),
		CreatedAt:        asTime(field(rec, "created_at")),
		UpdatedAt:        asTime(field(rec, "updated_at")),
	}
}
