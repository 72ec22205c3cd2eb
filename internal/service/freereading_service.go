package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kindled/internal/identity"
	"kindled/internal/models"
	"kindled/internal/repository"
	"kindled/internal/scripture"
	"kindled/internal/store"
)

// FreeReadingService tracks chapter-level completion for plans without a
// schedule. Checked chapters live in their own table; the user plan carries
// a running total that feeds the progress number and plan completion.
type FreeReadingService struct {
	userPlans *repository.UserPlanRepository
	plans     *repository.PlanRepository
	chapters  *repository.FreeReadingRepository
	progress  *ProgressService
	logger    *slog.Logger
}

// NewFreeReadingService creates a new free-reading service
func NewFreeReadingService(
	userPlans *repository.UserPlanRepository,
	plans *repository.PlanRepository,
	chapters *repository.FreeReadingRepository,
	progress *ProgressService,
	logger *slog.Logger,
) *FreeReadingService {
	return &FreeReadingService{
		userPlans: userPlans,
		plans:     plans,
		chapters:  chapters,
		progress:  progress,
		logger:    logger,
	}
}

// ToggleResult reports the outcome of checking or unchecking a chapter
type ToggleResult struct {
	Action        string // "added" or "removed"
	Total         int
	PlanCompleted bool
}

// BookCompletion is the per-book rollup of checked chapters
type BookCompletion struct {
	Book                    string
	TotalChapters           int
	CompletedChapters       int
	CompletedChapterNumbers []int
	IsComplete              bool
}

func (s *FreeReadingService) load(ctx context.Context, userID, userPlanID string) (*models.UserPlan, models.FreeReading, error) {
	if userID == "" {
		return nil, models.FreeReading{}, identity.ErrUnauthenticated
	}
	up, err := s.userPlans.GetByID(ctx, userPlanID)
	if err != nil {
		return nil, models.FreeReading{}, fmt.Errorf("load user plan: %w", err)
	}
	if up.UserID != userID {
		return nil, models.FreeReading{}, fmt.Errorf("user plan %s: %w", userPlanID, store.ErrNotFound)
	}
	plan, err := s.plans.GetByID(ctx, up.PlanID)
	if err != nil {
		return nil, models.FreeReading{}, fmt.Errorf("load plan: %w", err)
	}
	free, ok := plan.Structure.(models.FreeReading)
	if !ok {
		return nil, models.FreeReading{}, fmt.Errorf("plan %s is not a free-reading plan", plan.ID)
	}
	return up, free, nil
}

// ToggleChapter checks or unchecks a single chapter. isCurrentlyCompleted is
// the caller's view of the chapter's state; the service tolerates it being
// stale. Checking the last remaining chapter of the canon completes the
// plan; unchecking drops it back out of the completed state.
func (s *FreeReadingService) ToggleChapter(ctx context.Context, userID, userPlanID, book string, chapter int, isCurrentlyCompleted bool) (*ToggleResult, error) {
	up, free, err := s.load(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}
	if free.RequireChapterCount {
		return nil, fmt.Errorf("plan %s logs chapter counts only", up.PlanID)
	}
	if err := validateChapter(book, chapter); err != nil {
		return nil, err
	}

	if isCurrentlyCompleted {
		// The caller's view can be stale; only rows that actually exist
		// may move the running total.
		present, err := s.chapters.Has(ctx, up.ID, book, chapter)
		if err != nil {
			return nil, fmt.Errorf("check chapter: %w", err)
		}
		if !present {
			return &ToggleResult{Action: "removed", Total: up.FreeReadingTotal}, nil
		}
		if err := s.chapters.Remove(ctx, up.ID, book, chapter); err != nil {
			return nil, fmt.Errorf("remove chapter: %w", err)
		}
		return s.applyDelta(ctx, up, free, -1, "removed")
	}

	if err := s.chapters.Add(ctx, up.ID, book, chapter); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// Already checked, nothing to do
			return &ToggleResult{Action: "added", Total: up.FreeReadingTotal}, nil
		}
		return nil, fmt.Errorf("add chapter: %w", err)
	}
	return s.applyDelta(ctx, up, free, 1, "added")
}

// ToggleBook checks every chapter of a book in one call, or unchecks the
// whole book when all of its chapters are already checked.
// currentlyCompleted is the list of chapter numbers currently checked for
// the book.
func (s *FreeReadingService) ToggleBook(ctx context.Context, userID, userPlanID, book string, totalChapters int, currentlyCompleted []int) (*ToggleResult, error) {
	up, free, err := s.load(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}
	if free.RequireChapterCount {
		return nil, fmt.Errorf("plan %s logs chapter counts only", up.PlanID)
	}
	if totalChapters < 1 {
		return nil, fmt.Errorf("book %q has no chapters", book)
	}
	if err := validateChapter(book, 1); err != nil {
		return nil, err
	}

	if len(currentlyCompleted) >= totalChapters {
		if err := s.chapters.RemoveBook(ctx, up.ID, book); err != nil {
			return nil, fmt.Errorf("remove book: %w", err)
		}
		return s.applyDelta(ctx, up, free, -len(currentlyCompleted), "removed")
	}

	have := make(map[int]bool, len(currentlyCompleted))
	for _, c := range currentlyCompleted {
		have[c] = true
	}
	missing := make([]int, 0, totalChapters-len(currentlyCompleted))
	for c := 1; c <= totalChapters; c++ {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if err := s.chapters.AddChapters(ctx, up.ID, book, missing); err != nil {
		return nil, fmt.Errorf("add chapters: %w", err)
	}
	return s.applyDelta(ctx, up, free, len(missing), "added")
}

// LogChapters records a raw chapter count without naming the chapters, for
// plans that only ask how much was read. The count is validated before any
// write happens.
func (s *FreeReadingService) LogChapters(ctx context.Context, userID, userPlanID string, count int, notes string) (*ToggleResult, error) {
	up, free, err := s.load(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("chapter count must be positive, got %d", count)
	}
	if !free.AllowNotes {
		notes = ""
	}

	entries := make([]string, count)
	for i := range entries {
		entries[i] = fmt.Sprintf("free:%d", up.FreeReadingTotal+i+1)
	}
	if _, err := s.progress.AppendFreeEntries(ctx, up, entries, notes); err != nil {
		return nil, err
	}

	total := up.FreeReadingTotal + count
	if _, err := s.userPlans.SaveFreeReadingTotal(ctx, up.ID, total); err != nil {
		return nil, fmt.Errorf("save total: %w", err)
	}
	return s.finishToggle(ctx, up, free, total, "added")
}

// CalculateBookCompletionStatus rolls checked chapters up into per-book
// completion. Books with no checked chapters are included with zero counts
// so callers render the full canon.
func CalculateBookCompletionStatus(completed []models.FreeReadingChapter, books []scripture.Book) []BookCompletion {
	byBook := make(map[string][]int, len(books))
	for _, c := range completed {
		byBook[c.Book] = append(byBook[c.Book], c.Chapter)
	}

	out := make([]BookCompletion, 0, len(books))
	for _, b := range books {
		chapters := byBook[b.Name]
		out = append(out, BookCompletion{
			Book:                    b.Name,
			TotalChapters:           b.Chapters,
			CompletedChapters:       len(chapters),
			CompletedChapterNumbers: chapters,
			IsComplete:              len(chapters) >= b.Chapters,
		})
	}
	return out
}

// ListChapters returns the checked chapters for a user plan, ordered by
// book then chapter
func (s *FreeReadingService) ListChapters(ctx context.Context, userID, userPlanID string) ([]models.FreeReadingChapter, error) {
	up, _, err := s.load(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}
	return s.chapters.ListChapters(ctx, up.ID)
}

func (s *FreeReadingService) applyDelta(ctx context.Context, up *models.UserPlan, free models.FreeReading, delta int, action string) (*ToggleResult, error) {
	total := up.FreeReadingTotal + delta
	if total < 0 {
		total = 0
	}
	if _, err := s.userPlans.SaveFreeReadingTotal(ctx, up.ID, total); err != nil {
		return nil, fmt.Errorf("save total: %w", err)
	}

	if delta > 0 {
		entries := make([]string, delta)
		for i := range entries {
			entries[i] = fmt.Sprintf("free:%d", up.FreeReadingTotal+i+1)
		}
		if _, err := s.progress.AppendFreeEntries(ctx, up, entries, ""); err != nil {
			return nil, err
		}
	}

	return s.finishToggle(ctx, up, free, total, action)
}

func (s *FreeReadingService) finishToggle(ctx context.Context, up *models.UserPlan, free models.FreeReading, total int, action string) (*ToggleResult, error) {
	target := scripture.TotalChapters(free.BookType)

	completed := false
	if target > 0 && total >= target && !up.IsCompleted {
		if _, err := s.userPlans.SetCompleted(ctx, up.ID, true); err != nil {
			return nil, fmt.Errorf("set completed: %w", err)
		}
		completed = true
		if s.logger != nil {
			s.logger.Info("free-reading plan completed", "user_plan_id", up.ID, "total", total)
		}
	}
	if target > 0 && total < target && up.IsCompleted {
		if _, err := s.userPlans.SetCompleted(ctx, up.ID, false); err != nil {
			return nil, fmt.Errorf("clear completed: %w", err)
		}
	}

	return &ToggleResult{Action: action, Total: total, PlanCompleted: completed}, nil
}

func validateChapter(book string, chapter int) error {
	if chapter < 1 {
		return fmt.Errorf("chapter must be positive, got %d", chapter)
	}
	b, ok := scripture.FindBook(book)
	if !ok {
		return fmt.Errorf("unknown book %q", book)
	}
	if chapter > b.Chapters {
		return fmt.Errorf("%s has %d chapters, got %d", b.Name, b.Chapters, chapter)
	}
	return nil
}
