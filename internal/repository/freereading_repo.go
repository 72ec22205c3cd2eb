package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"kindled/internal/models"
	"kindled/internal/store"
)

// FreeReadingRepository maintains the set of (book, chapter) completions for
// free-reading plans. Presence means read; rows are inserted and deleted,
// never updated.
type FreeReadingRepository struct {
	store store.Store
}

// NewFreeReadingRepository creates a new free reading repository
func NewFreeReadingRepository(st store.Store) *FreeReadingRepository {
	return &FreeReadingRepository{store: st}
}

// ListChapters retrieves all completed chapters for a user plan, ordered by
// book then chapter
func (r *FreeReadingRepository) ListChapters(ctx context.Context, userPlanID string) ([]models.FreeReadingChapter, error) {
	recs, err := r.store.List(ctx, store.TableFreeReadingChapters, store.Filter{
		"user_plan_id": userPlanID,
	})
	if err != nil {
		return nil, err
	}

	chapters := make([]models.FreeReadingChapter, 0, len(recs))
	for _, rec := range recs {
		chapters = append(chapters, models.FreeReadingChapter{
			ID:         asString(field(rec, "id")),
			UserPlanID: asString(field(rec, "user_plan_id")),
			Book:       asString(field(rec, "book")),
			Chapter:    asInt(field(rec, "chapter")),
			CreatedAt:  asTime(field(rec, "created_at")),
		})
	}

	sort.Slice(chapters, func(i, j int) bool {
		if chapters[i].Book != chapters[j].Book {
			return chapters[i].Book < chapters[j].Book
		}
		return chapters[i].Chapter < chapters[j].Chapter
	})
	return chapters, nil
}

// Add marks one chapter as read. Returns store.ErrDuplicateKey when the
// chapter is already marked.
func (r *FreeReadingRepository) Add(ctx context.Context, userPlanID, book string, chapter int) error {
	_, err := r.store.Insert(ctx, store.TableFreeReadingChapters, chapterRecord(userPlanID, book, chapter))
	return err
}

// Has reports whether a chapter is currently marked read
func (r *FreeReadingRepository) Has(ctx context.Context, userPlanID, book string, chapter int) (bool, error) {
	_, err := r.store.Get(ctx, store.TableFreeReadingChapters, store.Filter{
		"user_plan_id": userPlanID,
		"book":         book,
		"chapter":      chapter,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove unmarks one chapter
func (r *FreeReadingRepository) Remove(ctx context.Context, userPlanID, book string, chapter int) error {
	return r.store.Delete(ctx, store.TableFreeReadingChapters, store.Filter{
		"user_plan_id": userPlanID,
		"book":         book,
		"chapter":      chapter,
	})
}

// AddChapters bulk-marks a set of chapters within one book
func (r *FreeReadingRepository) AddChapters(ctx context.Context, userPlanID, book string, chapters []int) error {
	if len(chapters) == 0 {
		return nil
	}
	records := make([]store.Record, len(chapters))
	for i, c := range chapters {
		records[i] = chapterRecord(userPlanID, book, c)
	}
	return r.store.BulkInsert(ctx, store.TableFreeReadingChapters, records)
}

// RemoveBook bulk-unmarks every chapter of a book
func (r *FreeReadingRepository) RemoveBook(ctx context.Context, userPlanID, book string) error {
	return r.store.BulkDelete(ctx, store.TableFreeReadingChapters, store.Filter{
		"user_plan_id": userPlanID,
		"book":         book,
	})
}

func chapterRecord(userPlanID, book string, chapter int) store.Record {
	return store.Record{
		"id":           uuid.NewString(),
		"user_plan_id": userPlanID,
		"book":         book,
		"chapter":      chapter,
		"created_at":   time.Now().UTC(),
	}
}
