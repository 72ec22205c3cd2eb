package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"kindled/internal/store"
)

// tableColumns whitelists the tables and columns the store serves. Queries
// are built only from names in this registry.
var tableColumns = map[string][]string{
	store.TablePlans: {
		"id", "name", "description", "duration_days", "daily_structure", "created_at",
	},
	store.TableUserPlans: {
		"id", "user_id", "plan_id", "start_date", "current_day", "list_positions",
		"free_reading_total", "is_completed", "completed_at", "is_archived",
		"created_at", "updated_at",
	},
	store.TableDailyProgress: {
		"id", "user_plan_id", "day_number", "date", "completed_sections",
		"is_complete", "notes", "created_at", "updated_at",
	},
	store.TableFreeReadingChapters: {
		"id", "user_plan_id", "book", "chapter", "created_at",
	},
}

// SQLStore implements store.Store over the dialect-abstracted SQL connection.
// Driver-specific uniqueness violations are classified into
// store.ErrDuplicateKey so callers stay driver-agnostic.
type SQLStore struct {
	db *DB
}

// NewStore creates a SQL-backed record store
func NewStore(db *DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, table string, filter store.Filter) (store.Record, error) {
	cols, err := columnsFor(table)
	if err != nil {
		return nil, err
	}

	where, args, err := buildWhere(table, filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", strings.Join(cols, ", "), table, where)
	rows, err := s.db.DB.QueryContext(ctx, s.db.Dialect.RewriteQuery(query), args...)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, store.ErrNotFound
	}

	return scanRecord(rows, cols)
}

func (s *SQLStore) List(ctx context.Context, table string, filter store.Filter) ([]store.Record, error) {
	cols, err := columnsFor(table)
	if err != nil {
		return nil, err
	}

	where, args, err := buildWhere(table, filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(cols, ", "), table, where)
	rows, err := s.db.DB.QueryContext(ctx, s.db.Dialect.RewriteQuery(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		rec, err := scanRecord(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Insert(ctx context.Context, table string, record store.Record) (store.Record, error) {
	if err := s.execInsert(ctx, table, record, s.db.DB.ExecContext); err != nil {
		return nil, err
	}
	return s.Get(ctx, table, store.Filter{"id": record["id"]})
}

func (s *SQLStore) Update(ctx context.Context, table string, id string, patch store.Record) (store.Record, error) {
	if _, err := columnsFor(table); err != nil {
		return nil, err
	}

	keys, err := recordKeys(table, patch)
	if err != nil {
		return nil, err
	}

	assignments := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		assignments[i] = k + " = ?"
		args = append(args, patch[k])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(assignments, ", "))
	result, err := s.db.DB.ExecContext(ctx, s.db.Dialect.RewriteQuery(query), args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.Get(ctx, table, store.Filter{"id": id})
}

func (s *SQLStore) Delete(ctx context.Context, table string, filter store.Filter) error {
	if _, err := columnsFor(table); err != nil {
		return err
	}

	where, args, err := buildWhere(table, filter)
	if err != nil {
		return err
	}

	query := "DELETE FROM " + table + where
	if _, err := s.db.DB.ExecContext(ctx, s.db.Dialect.RewriteQuery(query), args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (s *SQLStore) BulkInsert(ctx context.Context, table string, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := s.execInsert(ctx, table, record, tx.Tx.ExecContext); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) BulkDelete(ctx context.Context, table string, filter store.Filter) error {
	return s.Delete(ctx, table, filter)
}

type execFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

func (s *SQLStore) execInsert(ctx context.Context, table string, record store.Record, exec execFunc) error {
	keys, err := recordKeys(table, record)
	if err != nil {
		return err
	}

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = "?"
		args[i] = record[k]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(keys, ", "), strings.Join(placeholders, ", "))

	if _, err := exec(ctx, s.db.Dialect.RewriteQuery(query), args...); err != nil {
		if s.db.Dialect.IsDuplicateKey(err) {
			return fmt.Errorf("%w: insert into %s: %v", store.ErrDuplicateKey, table, err)
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// columnsFor validates the table name against the registry
func columnsFor(table string) ([]string, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	return cols, nil
}

// recordKeys returns the record's column names sorted for deterministic SQL,
// rejecting names outside the table's registry
func recordKeys(table string, record store.Record) ([]string, error) {
	cols, err := columnsFor(table)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c] = true
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		if !known[k] {
			return nil, fmt.Errorf("unknown column %q for table %s", k, table)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func buildWhere(table string, filter store.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	keys, err := recordKeys(table, store.Record(filter))
	if err != nil {
		return "", nil, err
	}

	conditions := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conditions[i] = k + " = ?"
		args[i] = filter[k]
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(rows scannable, cols []string) (store.Record, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(store.Record, len(cols))
	for i, col := range cols {
		if b, ok := values[i].([]byte); ok {
			rec[col] = string(b)
			continue
		}
		rec[col] = values[i]
	}
	return rec, nil
}
