package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kindled/internal/identity"
	"kindled/internal/models"
	"kindled/internal/repository"
	"kindled/internal/store"
)

// ProgressService is the write path for reading progress. All mutations go
// through it so the duplicate-row recovery and plan completion rules live in
// one place.
type ProgressService struct {
	userPlans *repository.UserPlanRepository
	plans     *repository.PlanRepository
	progress  *repository.ProgressRepository
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
}

// NewProgressService creates a new progress service. now and loc control the
// calendar-date keying of progress rows; tests inject fixed values.
func NewProgressService(
	userPlans *repository.UserPlanRepository,
	plans *repository.PlanRepository,
	progress *repository.ProgressRepository,
	logger *slog.Logger,
	now func() time.Time,
	loc *time.Location,
) *ProgressService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressService{
		userPlans: userPlans,
		plans:     plans,
		progress:  progress,
		logger:    logger,
		now:       now,
		loc:       loc,
	}
}

// Today returns the current calendar date in the service's timezone
func (s *ProgressService) Today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// ToggleSection returns the section list with the given id added if absent
// or removed if present, preserving the order of the remaining entries
func ToggleSection(sections []string, sectionID string) []string {
	out := make([]string, 0, len(sections)+1)
	found := false
	for _, s := range sections {
		if s == sectionID {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, sectionID)
	}
	return out
}

// MarkChapterResult reports the outcome of toggling a cycling-list chapter
type MarkChapterResult struct {
	Progress *models.DailyProgress
	Added    bool
}

// AdvanceResult reports the outcome of advancing a cycling list pointer
type AdvanceResult struct {
	Position       int
	CycleCompleted bool
}

// AdvanceDayResult reports the outcome of advancing the day pointer
type AdvanceDayResult struct {
	CurrentDay    int
	PlanCompleted bool
}

// SectionResult reports the outcome of toggling a day-structured section
type SectionResult struct {
	Progress      *models.DailyProgress
	DayCompleted  bool
	PlanCompleted bool
}

func (s *ProgressService) authorize(ctx context.Context, userID, userPlanID string) (*models.UserPlan, error) {
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

// MarkChapterRead toggles a cycling-list chapter in today's progress row.
// It records completion only; the list pointer moves separately via
// AdvanceList.
func (s *ProgressService) MarkChapterRead(ctx context.Context, userID, userPlanID, listID string, chapterIndex int) (*MarkChapterResult, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}

	sectionID := fmt.Sprintf("%s:%d", listID, chapterIndex)
	progress, err := s.toggleForToday(ctx, up, 0, sectionID, 0)
	if err != nil {
		return nil, err
	}
	return &MarkChapterResult{
		Progress: progress,
		Added:    progress.HasSection(sectionID),
	}, nil
}

// AdvanceList moves a cycling list's chapter pointer forward one chapter,
// wrapping to the start of the list when it passes the end. CycleCompleted
// is true only on the wrap itself.
func (s *ProgressService) AdvanceList(ctx context.Context, userID, userPlanID, listID string) (*AdvanceResult, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByID(ctx, up.PlanID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	cycling, ok := plan.Structure.(models.CyclingLists)
	if !ok {
		return nil, fmt.Errorf("plan %s has no cycling lists", plan.ID)
	}

	var list *models.ReadingList
	for i := range cycling.Lists {
		if cycling.Lists[i].ID == listID {
			list = &cycling.Lists[i]
			break
		}
	}
	if list == nil {
		return nil, fmt.Errorf("list %s: %w", listID, store.ErrNotFound)
	}
	if list.TotalChapters == 0 {
		return nil, fmt.Errorf("list %s has no chapters", listID)
	}

	current := up.PositionFor(listID)
	next := (current + 1) % list.TotalChapters

	positions := make(map[string]int, len(up.ListPositions)+1)
	for k, v := range up.ListPositions {
		positions[k] = v
	}
	positions[listID] = next

	if _, err := s.userPlans.SaveListPositions(ctx, up.ID, positions); err != nil {
		return nil, fmt.Errorf("save list positions: %w", err)
	}

	return &AdvanceResult{
		Position:       next,
		CycleCompleted: next == 0 && current > 0,
	}, nil
}

// AdvanceDay moves the plan's day pointer forward one day, clamping at the
// plan's duration. PlanCompleted is reported only on the transition into the
// completed state; unbounded plans never complete this way.
func (s *ProgressService) AdvanceDay(ctx context.Context, userID, userPlanID string) (*AdvanceDayResult, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByID(ctx, up.PlanID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	next := up.CurrentDay + 1
	if plan.DurationDays > 0 && next > plan.DurationDays {
		next = plan.DurationDays
	}

	if next != up.CurrentDay {
		if _, err := s.userPlans.SaveCurrentDay(ctx, up.ID, next); err != nil {
			return nil, fmt.Errorf("save current day: %w", err)
		}
	}

	completed := false
	if plan.DurationDays > 0 && next >= plan.DurationDays && !up.IsCompleted {
		if _, err := s.userPlans.SetCompleted(ctx, up.ID, true); err != nil {
			return nil, fmt.Errorf("set completed: %w", err)
		}
		completed = true
	}

	return &AdvanceDayResult{CurrentDay: next, PlanCompleted: completed}, nil
}

// MarkSectionComplete toggles one section of a day-structured plan.
// totalSections is the number of sections the day resolves to; the day is
// complete when every one of them has been checked. Completing the final
// day's last section completes the plan; unchecking it un-completes it.
func (s *ProgressService) MarkSectionComplete(ctx context.Context, userID, userPlanID string, dayNumber int, sectionID string, totalSections int) (*SectionResult, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByID(ctx, up.PlanID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	// Completion state for a day outlives its calendar date, so look up by
	// day number first and fall back to creating today's row.
	existing, err := s.progress.GetForDay(ctx, userPlanID, dayNumber)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	var progress *models.DailyProgress
	wasComplete := existing != nil && existing.IsComplete

	if existing != nil {
		sections := ToggleSection(existing.CompletedSections, sectionID)
		isComplete := totalSections > 0 && len(sections) >= totalSections
		progress, err = s.progress.Save(ctx, existing.ID, sections, isComplete)
		if err != nil {
			return nil, fmt.Errorf("save progress: %w", err)
		}
	} else {
		progress, err = s.toggleForToday(ctx, up, dayNumber, sectionID, totalSections)
		if err != nil {
			return nil, err
		}
	}

	dayCompleted := progress.IsComplete && !wasComplete

	planCompleted := false
	atFinal := IsPlanAtFinalDay(up, plan) && dayNumber >= plan.DurationDays
	if atFinal && dayCompleted && !up.IsCompleted {
		if _, err := s.userPlans.SetCompleted(ctx, up.ID, true); err != nil {
			return nil, fmt.Errorf("set completed: %w", err)
		}
		planCompleted = true
	}
	if atFinal && !progress.IsComplete && up.IsCompleted {
		if _, err := s.userPlans.SetCompleted(ctx, up.ID, false); err != nil {
			return nil, fmt.Errorf("clear completed: %w", err)
		}
	}

	return &SectionResult{
		Progress:      progress,
		DayCompleted:  dayCompleted,
		PlanCompleted: planCompleted,
	}, nil
}

// SaveNotes attaches free-text notes to a day's progress row, creating the
// row if the day has no completions yet
func (s *ProgressService) SaveNotes(ctx context.Context, userID, userPlanID string, dayNumber int, notes string) (*models.DailyProgress, error) {
	up, err := s.authorize(ctx, userID, userPlanID)
	if err != nil {
		return nil, err
	}

	existing, err := s.progress.GetForDay(ctx, userPlanID, dayNumber)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		existing, err = s.createRow(ctx, up, dayNumber, nil, false)
		if err != nil {
			return nil, err
		}
	}
	return s.progress.SaveNotes(ctx, existing.ID, notes)
}

// AppendFreeEntries adds synthetic section entries to today's free-reading
// row. Entries are append-only; unlogging chapters adjusts the running total
// on the user plan but never rewrites history here.
func (s *ProgressService) AppendFreeEntries(ctx context.Context, userPlan *models.UserPlan, entryIDs []string, notes string) (*models.DailyProgress, error) {
	today := s.Today()
	existing, err := s.progress.GetForDate(ctx, userPlan.ID, today)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		created, err := s.createRow(ctx, userPlan, 0, entryIDs, false)
		if err == nil {
			if notes != "" {
				return s.progress.SaveNotes(ctx, created.ID, notes)
			}
			return created, nil
		}
		if !errors.Is(err, store.ErrDuplicateKey) {
			return nil, err
		}
		// Lost the insert race; fall through to the update path.
		existing, err = s.progress.GetForDate(ctx, userPlan.ID, today)
		if err != nil {
			return nil, fmt.Errorf("reload progress after duplicate: %w", err)
		}
	}

	sections := append(append([]string{}, existing.CompletedSections...), entryIDs...)
	updated, err := s.progress.Save(ctx, existing.ID, sections, existing.IsComplete)
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	if notes != "" {
		return s.progress.SaveNotes(ctx, updated.ID, notes)
	}
	return updated, nil
}

// toggleForToday toggles a section in today's row, creating the row when it
// does not exist yet. A duplicate-key error on the insert means a concurrent
// request created the row between our lookup and insert; recovery refetches
// the winning row and reapplies the toggle against its current state, so
// neither request's section is lost.
func (s *ProgressService) toggleForToday(ctx context.Context, up *models.UserPlan, dayNumber int, sectionID string, totalSections int) (*models.DailyProgress, error) {
	today := s.Today()

	existing, err := s.progress.GetForDate(ctx, up.ID, today)
	if err == nil {
		sections := ToggleSection(existing.CompletedSections, sectionID)
		isComplete := totalSections > 0 && len(sections) >= totalSections
		return s.progress.Save(ctx, existing.ID, sections, isComplete)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	created, err := s.createRow(ctx, up, dayNumber, []string{sectionID}, totalSections == 1)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, store.ErrDuplicateKey) {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Warn("progress row already exists, retrying as update",
			"user_plan_id", up.ID, "date", today)
	}
	winner, ferr := s.progress.GetForDate(ctx, up.ID, today)
	if ferr != nil {
		return nil, fmt.Errorf("reload progress after duplicate: %w (insert: %v)", ferr, err)
	}
	sections := ToggleSection(winner.CompletedSections, sectionID)
	isComplete := totalSections > 0 && len(sections) >= totalSections
	return s.progress.Save(ctx, winner.ID, sections, isComplete)
}

func (s *ProgressService) createRow(ctx context.Context, up *models.UserPlan, dayNumber int, sections []string, isComplete bool) (*models.DailyProgress, error) {
	return s.progress.Create(ctx, &models.DailyProgress{
		UserPlanID:        up.ID,
		DayNumber:         dayNumber,
		Date:              s.Today(),
		CompletedSections: sections,
		IsComplete:        isComplete,
	})
}
