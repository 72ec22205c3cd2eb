// Package store defines the generic keyed-record interface the progress
// engine persists through. The production implementation lives in the
// database package; an in-memory implementation backs the unit tests.
package store

import (
	"context"
	"errors"
)

// Table names the engine reads and writes
const (
	TablePlans               = "reading_plans"
	TableUserPlans           = "user_plans"
	TableDailyProgress       = "daily_progress"
	TableFreeReadingChapters = "free_reading_chapters"
)

var (
	// ErrNotFound is returned when no record matches a lookup
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicateKey is returned when an insert violates a uniqueness
	// constraint. Callers use errors.Is against it to drive the
	// retry-as-update recovery path.
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrUnknownTable is returned for tables outside the engine's schema
	ErrUnknownTable = errors.New("store: unknown table")
)

// Record is a single row expressed as column name to value
type Record map[string]any

// Filter matches records by column equality
type Filter map[string]any

// Store is the keyed-record persistence surface. Every call is a single
// round trip; Insert reports uniqueness violations as ErrDuplicateKey.
type Store interface {
	Get(ctx context.Context, table string, filter Filter) (Record, error)
	List(ctx context.Context, table string, filter Filter) ([]Record, error)
	Insert(ctx context.Context, table string, record Record) (Record, error)
	Update(ctx context.Context, table string, id string, patch Record) (Record, error)
	Delete(ctx context.Context, table string, filter Filter) error
	BulkInsert(ctx context.Context, table string, records []Record) error
	BulkDelete(ctx context.Context, table string, filter Filter) error
}
