package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kindled/internal/models"
	"kindled/internal/store"
)

// PlanRepository reads plan definitions. Plans are immutable once created;
// the only write path is the catalog seeder.
type PlanRepository struct {
	store store.Store
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(st store.Store) *PlanRepository {
	return &PlanRepository{store: st}
}

// GetByID retrieves a plan definition by id
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*models.ReadingPlan, error) {
	rec, err := r.store.Get(ctx, store.TablePlans, store.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	return decodePlan(rec)
}

// GetByName retrieves a plan definition by its unique name
func (r *PlanRepository) GetByName(ctx context.Context, name string) (*models.ReadingPlan, error) {
	rec, err := r.store.Get(ctx, store.TablePlans, store.Filter{"name": name})
	if err != nil {
		return nil, err
	}
	return decodePlan(rec)
}

// List retrieves all plan definitions
func (r *PlanRepository) List(ctx context.Context) ([]models.ReadingPlan, error) {
	recs, err := r.store.List(ctx, store.TablePlans, nil)
	if err != nil {
		return nil, err
	}

	plans := make([]models.ReadingPlan, 0, len(recs))
	for _, rec := range recs {
		plan, err := decodePlan(rec)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, nil
}

// Create inserts a new plan definition, assigning an id if absent
func (r *PlanRepository) Create(ctx context.Context, plan *models.ReadingPlan) (*models.ReadingPlan, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}

	structure, err := models.MarshalStructure(plan.Structure)
	if err != nil {
		return nil, fmt.Errorf("encoding plan structure: %w", err)
	}

	rec, err := r.store.Insert(ctx, store.TablePlans, store.Record{
		"id":              plan.ID,
		"name":            plan.Name,
		"description":     plan.Description,
		"duration_days":   plan.DurationDays,
		"daily_structure": string(structure),
		"created_at":      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return decodePlan(rec)
}

func decodePlan(rec store.Record) (*models.ReadingPlan, error) {
	structure, err := models.UnmarshalStructure([]byte(asString(field(rec, "daily_structure"))))
	if err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", asString(field(rec, "id")), err)
	}

	return &models.ReadingPlan{
		ID:           asString(field(rec, "id")),
		Name:         asString(field(rec, "name")),
		Description:  asString(field(rec, "description")),
		DurationDays: asInt(field(rec, "duration_days")),
		Structure:    structure,
		CreatedAt:    asTime(field(rec, "created_at")),
	}, nil
}
