package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kindled/internal/models"
	"kindled/internal/repository"
	"kindled/internal/scripture"
	"kindled/internal/store"
)

// CatalogService manages the shared reading plan catalog
type CatalogService struct {
	plans  *repository.PlanRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(plans *repository.PlanRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{plans: plans, logger: logger}
}

// ListPlans returns every plan in the catalog
func (s *CatalogService) ListPlans(ctx context.Context) ([]models.ReadingPlan, error) {
	return s.plans.List(ctx)
}

// GetPlan returns one plan by id
func (s *CatalogService) GetPlan(ctx context.Context, id string) (*models.ReadingPlan, error) {
	return s.plans.GetByID(ctx, id)
}

// SeedBuiltinPlans inserts the builtin plan catalog, skipping any plan that
// already exists by name. Safe to run on every startup.
func (s *CatalogService) SeedBuiltinPlans(ctx context.Context) error {
	for _, plan := range builtinPlans() {
		_, err := s.plans.GetByName(ctx, plan.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("check plan %q: %w", plan.Name, err)
		}
		if _, err := s.plans.Create(ctx, &plan); err != nil {
			return fmt.Errorf("seed plan %q: %w", plan.Name, err)
		}
		if s.logger != nil {
			s.logger.Info("seeded plan", "name", plan.Name)
		}
	}
	return nil
}

func builtinPlans() []models.ReadingPlan {
	return []models.ReadingPlan{
		tenListsPlan(),
		bibleIn90DaysPlan(),
		gospelsIn30DaysPlan(),
		balancedDietPlan(),
		twelveWeekPsalterPlan(),
		freeReadingPlan(),
	}
}

// tenListsPlan builds a Horner-style plan of independently cycling lists.
// Lists deliberately differ in length so they drift against each other and
// pair different books together over time.
func tenListsPlan() models.ReadingPlan {
	groups := []struct {
		id    string
		label string
		books []string
	}{
		{"gospels", "Gospels", []string{"Matthew", "Mark", "Luke", "John"}},
		{"pentateuch", "Pentateuch", []string{"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy"}},
		{"epistles1", "Epistles I", []string{"Romans", "1 Corinthians", "2 Corinthians", "Galatians", "Ephesians", "Philippians", "Colossians", "Hebrews"}},
		{"epistles2", "Epistles II", []string{"1 Thessalonians", "2 Thessalonians", "1 Timothy", "2 Timothy", "Titus", "Philemon", "James", "1 Peter", "2 Peter", "1 John", "2 John", "3 John", "Jude", "Revelation"}},
		{"wisdom", "Wisdom", []string{"Job", "Ecclesiastes", "Song of Solomon"}},
		{"psalms", "Psalms", []string{"Psalms"}},
		{"proverbs", "Proverbs", []string{"Proverbs"}},
		{"history", "History", []string{"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel", "1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra", "Nehemiah", "Esther"}},
		{"prophets", "Prophets", []string{"Isaiah", "Jeremiah", "Lamentations", "Ezekiel", "Daniel", "Hosea", "Joel", "Amos", "Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk", "Zephaniah", "Haggai", "Zechariah", "Malachi"}},
		{"acts", "Acts", []string{"Acts"}},
	}

	lists := make([]models.ReadingList, 0, len(groups))
	for _, g := range groups {
		list := models.ReadingList{ID: g.id, Label: g.label}
		for _, name := range g.books {
			book, ok := scripture.FindBook(name)
			if !ok {
				continue
			}
			list.Books = append(list.Books, models.BookChapters{
				Book:     book.Name,
				Chapters: chapterNumbers(book.Chapters),
			})
			list.TotalChapters += book.Chapters
		}
		lists = append(lists, list)
	}

	return models.ReadingPlan{
		Name:        "Ten Lists",
		Description: "Ten independently cycling reading lists covering the whole Bible",
		Structure:   models.CyclingLists{Lists: lists},
	}
}

// bibleIn90DaysPlan is a legacy-shaped sequential plan: no per-day readings,
// just a flat chapters-per-day pace
func bibleIn90DaysPlan() models.ReadingPlan {
	return models.ReadingPlan{
		Name:         "Bible in 90 Days",
		Description:  "Read the whole Bible in three months at roughly 13 chapters a day",
		DurationDays: 90,
		Structure:    models.Sequential{ChaptersPerDay: 13},
	}
}

// gospelsIn30DaysPlan walks the four gospels in order, one generated reading
// per day
func gospelsIn30DaysPlan() models.ReadingPlan {
	const days = 30

	var chapters []string
	for _, name := range []string{"Matthew", "Mark", "Luke", "John"} {
		book, _ := scripture.FindBook(name)
		for c := 1; c <= book.Chapters; c++ {
			chapters = append(chapters, fmt.Sprintf("%s %d", book.Name, c))
		}
	}

	readings := make([]models.DayReading, 0, days)
	perDay := (len(chapters) + days - 1) / days
	for day := 1; day <= days; day++ {
		start := (day - 1) * perDay
		if start >= len(chapters) {
			break
		}
		end := start + perDay
		if end > len(chapters) {
			end = len(chapters)
		}
		readings = append(readings, models.DayReading{
			Day: day,
			Sections: []models.DaySection{{
				ID:       "reading",
				Label:    "Gospel Reading",
				Passages: chapters[start:end],
			}},
		})
	}

	return models.ReadingPlan{
		Name:         "Gospels in 30 Days",
		Description:  "Matthew, Mark, Luke and John in a month",
		DurationDays: len(readings),
		Structure:    models.Sequential{Readings: readings},
	}
}

// balancedDietPlan pairs Old Testament, New Testament and Psalms tracks into
// one sectional plan. Each track advances at its own pace and wraps when it
// runs out of its portion of the canon.
func balancedDietPlan() models.ReadingPlan {
	const days = 60

	ot := newChapterCursor(scripture.OldTestamentBooks())
	nt := newChapterCursor(scripture.NewTestamentBooks())
	psalms := newChapterCursor(booksNamed("Psalms"))

	readings := make([]models.DayReading, 0, days)
	for day := 1; day <= days; day++ {
		readings = append(readings, models.DayReading{
			Day: day,
			Sections: []models.DaySection{
				{ID: "ot", Label: "Old Testament", Passages: ot.next(2)},
				{ID: "nt", Label: "New Testament", Passages: nt.next(1)},
				{ID: "psalms", Label: "Psalms", Passages: psalms.next(1)},
			},
		})
	}

	return models.ReadingPlan{
		Name:         "Balanced Diet",
		Description:  "Two Old Testament chapters, one New Testament chapter and a psalm each day",
		DurationDays: days,
		Structure:    models.Sectional{Readings: readings},
	}
}

// twelveWeekPsalterPlan schedules five weekday categories over twelve weeks
func twelveWeekPsalterPlan() models.ReadingPlan {
	const (
		totalWeeks      = 12
		readingsPerWeek = 5
	)

	categories := []models.WeekCategory{
		{ID: "psalm", Label: "Psalm", DayOfWeek: 1},
		{ID: "law", Label: "Law", DayOfWeek: 2},
		{ID: "prophets", Label: "Prophets", DayOfWeek: 3},
		{ID: "gospel", Label: "Gospel", DayOfWeek: 4},
		{ID: "epistle", Label: "Epistle", DayOfWeek: 5},
	}

	cursors := map[string]*chapterCursor{
		"psalm":    newChapterCursor(booksNamed("Psalms")),
		"law":      newChapterCursor(booksNamed("Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy")),
		"prophets": newChapterCursor(booksNamed("Isaiah", "Jeremiah", "Ezekiel")),
		"gospel":   newChapterCursor(booksNamed("Luke", "John")),
		"epistle":  newChapterCursor(booksNamed("Romans", "1 Corinthians", "2 Corinthians")),
	}

	weeks := make([]models.WeekReadings, 0, totalWeeks)
	for w := 1; w <= totalWeeks; w++ {
		week := models.WeekReadings{Week: w}
		for _, cat := range categories {
			passages := cursors[cat.ID].next(1)
			if len(passages) == 0 {
				continue
			}
			week.Readings = append(week.Readings, models.WeekReading{
				DayOfWeek:  cat.DayOfWeek,
				CategoryID: cat.ID,
				Passage:    passages[0],
			})
		}
		weeks = append(weeks, week)
	}

	return models.ReadingPlan{
		Name:         "Twelve Week Sampler",
		Description:  "A twelve-week tour with a fixed category for each weekday",
		DurationDays: totalWeeks * readingsPerWeek,
		Structure: models.WeeklySectional{
			TotalWeeks:      totalWeeks,
			ReadingsPerWeek: readingsPerWeek,
			Categories:      categories,
			Weeks:           weeks,
		},
	}
}

func freeReadingPlan() models.ReadingPlan {
	return models.ReadingPlan{
		Name:        "Free Reading",
		Description: "Check off chapters anywhere in the Bible at your own pace",
		Structure: models.FreeReading{
			AllowNotes: true,
			BookType:   scripture.BookTypeBible,
		},
	}
}

// chapterCursor walks a book list chapter by chapter, wrapping at the end
type chapterCursor struct {
	chapters []string
	pos      int
}

func newChapterCursor(books []scripture.Book) *chapterCursor {
	c := &chapterCursor{}
	for _, b := range books {
		for ch := 1; ch <= b.Chapters; ch++ {
			c.chapters = append(c.chapters, fmt.Sprintf("%s %d", b.Name, ch))
		}
	}
	return c
}

func (c *chapterCursor) next(n int) []string {
	if len(c.chapters) == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.chapters[c.pos])
		c.pos = (c.pos + 1) % len(c.chapters)
	}
	return out
}

func booksNamed(names ...string) []scripture.Book {
	out := make([]scripture.Book, 0, len(names))
	for _, name := range names {
		if b, ok := scripture.FindBook(name); ok {
			out = append(out, b)
		}
	}
	return out
}

func chapterNumbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
