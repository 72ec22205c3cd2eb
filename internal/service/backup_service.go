package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"kindled/internal/store"
)

// backupTables lists every table in dependency order: parents first so an
// import can insert in order and a clear can delete in reverse
var backupTables = []string{
	store.TablePlans,
	store.TableUserPlans,
	store.TableDailyProgress,
	store.TableFreeReadingChapters,
}

// BackupService exports and imports the full dataset as a single JSON
// document. Records pass through untyped so a backup taken on one schema
// revision can still be inspected by hand.
type BackupService struct {
	store store.Store
}

// NewBackupService creates a new backup service
func NewBackupService(st store.Store) *BackupService {
	return &BackupService{store: st}
}

type backupFile struct {
	Version    int                       `json:"version"`
	ExportedAt time.Time                 `json:"exported_at"`
	Tables     map[string][]store.Record `json:"tables"`
}

// Export writes every table to the given path as JSON
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	backup := backupFile{
		Version:    1,
		ExportedAt: time.Now().UTC(),
		Tables:     make(map[string][]store.Record, len(backupTables)),
	}

	for _, table := range backupTables {
		records, err := s.store.List(ctx, table, nil)
		if err != nil {
			return fmt.Errorf("export %s: %w", table, err)
		}
		backup.Tables[table] = records
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Import loads a backup file and inserts its records table by table.
// Existing rows with the same keys cause the table's insert to fail; run
// Clear first for a full restore.
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var backup backupFile
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if backup.Version != 1 {
		return fmt.Errorf("unsupported backup version %d", backup.Version)
	}

	for _, table := range backupTables {
		records := backup.Tables[table]
		if len(records) == 0 {
			continue
		}
		if err := s.store.BulkInsert(ctx, table, records); err != nil {
			return fmt.Errorf("import %s: %w", table, err)
		}
	}
	return nil
}

// Clear deletes every row from every table, children first
func (s *BackupService) Clear(ctx context.Context) error {
	for i := len(backupTables) - 1; i >= 0; i-- {
		table := backupTables[i]
		if err := s.store.BulkDelete(ctx, table, nil); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
