package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StructureType discriminates the five schedule shapes a reading plan can take
type StructureType string

const (
	StructureCyclingLists    StructureType = "cycling_lists"
	StructureSequential      StructureType = "sequential"
	StructureSectional       StructureType = "sectional"
	StructureWeeklySectional StructureType = "weekly_sectional"
	StructureFreeReading     StructureType = "free_reading"
)

// DailyStructure is the closed set of schedule shapes. The concrete types are
// CyclingLists, Sequential, Sectional, WeeklySectional and FreeReading;
// resolver and stats code switches over them exhaustively.
type DailyStructure interface {
	Type() StructureType
}

// ReadingPlan is an immutable plan definition shared across users
type ReadingPlan struct {
	ID           string
	Name         string
	Description  string
	DurationDays int // 0 = unbounded
	Structure    DailyStructure
	CreatedAt    time.Time
}

// CyclingLists holds independently cycling reading lists; each list has its
// own chapter pointer that wraps at the list's length
type CyclingLists struct {
	Lists []ReadingList `json:"lists"`
}

func (CyclingLists) Type() StructureType { return StructureCyclingLists }

// ReadingList is one cycling list built from whole books
type ReadingList struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	Books         []BookChapters `json:"books"`
	TotalChapters int            `json:"total_chapters"`
}

// BookChapters names a book and the chapter numbers the list draws from it
type BookChapters struct {
	Book     string `json:"book"`
	Chapters []int  `json:"chapters"`
}

// ChapterAt flattens the list's books into a single chapter sequence and
// returns the book and chapter at the given index
func (l ReadingList) ChapterAt(index int) (book string, chapter int, ok bool) {
	if index < 0 {
		return "", 0, false
	}
	for _, b := range l.Books {
		if index < len(b.Chapters) {
			return b.Book, b.Chapters[index], true
		}
		index -= len(b.Chapters)
	}
	return "", 0, false
}

// Sequential schedules one reading per day. Modern plans carry explicit
// per-day readings; legacy plans carry only a chapters-per-day constant.
type Sequential struct {
	ChaptersPerDay int          `json:"chapters_per_day,omitempty"`
	Readings       []DayReading `json:"readings,omitempty"`
}

func (Sequential) Type() StructureType { return StructureSequential }

// Sectional schedules multiple named sections per day (e.g. OT/NT/Psalms)
type Sectional struct {
	Readings []DayReading `json:"readings"`
}

func (Sectional) Type() StructureType { return StructureSectional }

// DayReading is the set of sections scheduled for one plan day
type DayReading struct {
	Day      int          `json:"day"`
	Sections []DaySection `json:"sections"`
}

// ReadingFor returns the day entry for a day number, or false when the day
// is beyond the defined schedule
func ReadingFor(readings []DayReading, day int) (DayReading, bool) {
	for _, r := range readings {
		if r.Day == day {
			return r, true
		}
	}
	return DayReading{}, false
}

// DaySection is one checkable sub-reading within a day
type DaySection struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Passages []string `json:"passages"`
}

// WeeklySectional schedules readings by week and weekday category
type WeeklySectional struct {
	TotalWeeks      int            `json:"total_weeks"`
	ReadingsPerWeek int            `json:"readings_per_week"`
	Categories      []WeekCategory `json:"categories"`
	Weeks           []WeekReadings `json:"weeks"`
}

func (WeeklySectional) Type() StructureType { return StructureWeeklySectional }

// WeekCategory names a reading track tied to a day of the week
type WeekCategory struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	DayOfWeek int    `json:"day_of_week"`
}

// WeekReadings holds one week's scheduled readings
type WeekReadings struct {
	Week     int           `json:"week"`
	Readings []WeekReading `json:"readings"`
}

// WeekReading assigns a passage to a weekday slot
type WeekReading struct {
	DayOfWeek  int    `json:"day_of_week"`
	CategoryID string `json:"category_id"`
	Passage    string `json:"passage"`
}

// CategoryLabel resolves a category id to its display label
func (w WeeklySectional) CategoryLabel(categoryID string) string {
	for _, c := range w.Categories {
		if c.ID == categoryID {
			return c.Label
		}
	}
	return categoryID
}

// FreeReading has no predefined schedule; the user logs whatever they read.
// RequireChapterCount switches the plan to count-only logging: readers report
// how many chapters they read instead of checking off named chapters.
type FreeReading struct {
	AllowNotes          bool   `json:"allow_notes"`
	RequireChapterCount bool   `json:"require_chapter_count"`
	BookType            string `json:"book_type"`
}

func (FreeReading) Type() StructureType { return StructureFreeReading }

// MarshalStructure serializes a daily structure into the flat JSON document
// stored in the plans table, with a "type" discriminant field
func MarshalStructure(s DailyStructure) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("daily structure is nil")
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s structure: %w", s.Type(), err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	doc["type"], _ = json.Marshal(s.Type())

	return json.Marshal(doc)
}

// UnmarshalStructure parses a stored structure document back into its
// concrete variant, failing on unknown discriminants
func UnmarshalStructure(data []byte) (DailyStructure, error) {
	var head struct {
		Type StructureType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("reading structure type: %w", err)
	}

	switch head.Type {
	case StructureCyclingLists:
		var v CyclingLists
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case StructureSequential:
		var v Sequential
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case StructureSectional:
		var v Sectional
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case StructureWeeklySectional:
		var v WeeklySectional
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case StructureFreeReading:
		var v FreeReading
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown structure type: %q", head.Type)
	}
}
