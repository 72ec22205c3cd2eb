package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kindled/internal/models"
	"kindled/internal/store"
)

// ProgressRepository handles daily progress rows. Inserts surface
// store.ErrDuplicateKey unchanged so the service layer can run its
// retry-as-update recovery.
type ProgressRepository struct {
	store store.Store
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(st store.Store) *ProgressRepository {
	return &ProgressRepository{store: st}
}

// GetForDate retrieves the progress row for a calendar date
func (r *ProgressRepository) GetForDate(ctx context.Context, userPlanID, date string) (*models.DailyProgress, error) {
	rec, err := r.store.Get(ctx, store.TableDailyProgress, store.Filter{
		"user_plan_id": userPlanID,
		"date":         date,
	})
	if err != nil {
		return nil, err
	}
	return decodeProgress(rec), nil
}

// GetForDay retrieves the progress row for a plan day number. This is how
// completion state for a plan day is recovered after the calendar date has
// rolled over.
func (r *ProgressRepository) GetForDay(ctx context.Context, userPlanID string, dayNumber int) (*models.DailyProgress, error) {
	rec, err := r.store.Get(ctx, store.TableDailyProgress, store.Filter{
		"user_plan_id": userPlanID,
		"day_number":   dayNumber,
	})
	if err != nil {
		return nil, err
	}
	return decodeProgress(rec), nil
}

// Create inserts a new progress row, assigning an id if absent
func (r *ProgressRepository) Create(ctx context.Context, p *models.DailyProgress) (*models.DailyProgress, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	rec, err := r.store.Insert(ctx, store.TableDailyProgress, store.Record{
		"id":                 p.ID,
		"user_plan_id":       p.UserPlanID,
		"day_number":         p.DayNumber,
		"date":               p.Date,
		"completed_sections": encodeStringSlice(p.CompletedSections),
		"is_complete":        p.IsComplete,
		"notes":              p.Notes,
		"created_at":         now,
		"updated_at":         now,
	})
	if err != nil {
		return nil, err
	}
	return decodeProgress(rec), nil
}

// Save updates a row's completion state in place. day_number is fixed at
// creation and never rewritten, so a row keeps the plan day it was opened
// under even when later toggles arrive with a moved pointer.
func (r *ProgressRepository) Save(ctx context.Context, id string, sections []string, isComplete bool) (*models.DailyProgress, error) {
	rec, err := r.store.Update(ctx, store.TableDailyProgress, id, store.Record{
		"completed_sections": encodeStringSlice(sections),
		"is_complete":        isComplete,
		"updated_at":         time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return decodeProgress(rec), nil
}

// SaveNotes updates a row's notes without touching completion state
func (r *ProgressRepository) SaveNotes(ctx context.Context, id string, notes string) (*models.DailyProgress, error) {
	rec, err := r.store.Update(ctx, store.TableDailyProgress, id, store.Record{
		"notes":      notes,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return decodeProgress(rec), nil
}

func decodeProgress(rec store.Record) *models.DailyProgress {
	return &models.DailyProgress{
		ID:                asString(field(rec, "id")),
		UserPlanID:        asString(field(rec, "user_plan_id")),
		DayNumber:         asInt(field(rec, "day_number")),
		Date:              asString(field(rec, "date")),
		CompletedSections: decodeStringSlice(field(rec, "completed_sections")),
		IsComplete:        asBool(field(rec, "is_complete")),
		Notes:             asString(field(rec, "notes")),
		CreatedAt:         asTime(field(rec, "created_at")),
		UpdatedAt:         asTime(field(rec, "updated_at")),
	}
}
