package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// uniqueKeys lists the column sets with uniqueness constraints per table,
// mirroring the SQL schema
var uniqueKeys = map[string][][]string{
	TablePlans:               {{"id"}, {"name"}},
	TableUserPlans:           {{"id"}},
	TableDailyProgress:       {{"id"}, {"user_plan_id", "date"}},
	TableFreeReadingChapters: {{"id"}, {"user_plan_id", "book", "chapter"}},
}

// MemoryStore is a concurrency-safe in-memory Store used by tests. It
// enforces the same uniqueness constraints as the SQL schema so the
// duplicate-key recovery path can be exercised without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Record)}
}

func (m *MemoryStore) Get(ctx context.Context, table string, filter Filter) (Record, error) {
	if _, ok := uniqueKeys[table]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.tables[table] {
		if matches(rec, filter) {
			return cloneRecord(rec), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context, table string, filter Filter) ([]Record, error) {
	if _, ok := uniqueKeys[table]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.tables[table] {
		if matches(rec, filter) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func (m *MemoryStore) Insert(ctx context.Context, table string, record Record) (Record, error) {
	if _, ok := uniqueKeys[table]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(table, record); err != nil {
		return nil, err
	}

	m.tables[table] = append(m.tables[table], cloneRecord(record))
	return cloneRecord(record), nil
}

func (m *MemoryStore) Update(ctx context.Context, table string, id string, patch Record) (Record, error) {
	if _, ok := uniqueKeys[table]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, rec := range m.tables[table] {
		if equalValues(rec["id"], id) {
			updated := cloneRecord(rec)
			for k, v := range patch {
				updated[k] = v
			}
			m.tables[table][i] = updated
			return cloneRecord(updated), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Delete(ctx context.Context, table string, filter Filter) error {
	if _, ok := uniqueKeys[table]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tables[table][:0]
	for _, rec := range m.tables[table] {
		if !matches(rec, filter) {
			kept = append(kept, rec)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *MemoryStore) BulkInsert(ctx context.Context, table string, records []Record) error {
	if _, ok := uniqueKeys[table]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// All-or-nothing, like a transaction
	for _, rec := range records {
		if err := m.checkUnique(table, rec); err != nil {
			return err
		}
	}
	for _, rec := range records {
		m.tables[table] = append(m.tables[table], cloneRecord(rec))
	}
	return nil
}

func (m *MemoryStore) BulkDelete(ctx context.Context, table string, filter Filter) error {
	return m.Delete(ctx, table, filter)
}

// checkUnique must be called with the write lock held
func (m *MemoryStore) checkUnique(table string, record Record) error {
	for _, keySet := range uniqueKeys[table] {
		for _, existing := range m.tables[table] {
			conflict := true
			for _, col := range keySet {
				if !equalValues(existing[col], record[col]) {
					conflict = false
					break
				}
			}
			if conflict {
				return fmt.Errorf("%w: %s (%s)", ErrDuplicateKey, table, strings.Join(keySet, ","))
			}
		}
	}
	return nil
}

func matches(rec Record, filter Filter) bool {
	for k, v := range filter {
		if !equalValues(rec[k], v) {
			return false
		}
	}
	return true
}

// equalValues compares loosely across the integer widths and byte/string
// representations different drivers produce
func equalValues(a, b any) bool {
	if na, ok := normalize(a); ok {
		if nb, ok := normalize(b); ok {
			return na == nb
		}
		return false
	}
	return a == b
}

func normalize(v any) (any, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case []byte:
		return string(t), true
	case string:
		return t, true
	case bool:
		return t, true
	default:
		return nil, false
	}
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
