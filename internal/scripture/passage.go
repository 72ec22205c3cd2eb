package scripture

import (
	"regexp"
	"strconv"
)

var (
	chapterRangePattern  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	chapterNumberPattern = regexp.MustCompile(`\d+`)
)

// CountChapters converts a human-readable passage reference into a chapter
// count. "Romans 7-8" counts as 2, "Psalm 119" as 1. Malformed or empty
// input counts as a single chapter rather than erroring, so aggregate stats
// always move forward. Only the first range in a multi-range reference is
// counted ("Gen 1-3, 10" yields 3).
func CountChapters(passage string) int {
	if m := chapterRangePattern.FindStringSubmatch(passage); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if n := end - start + 1; n > 1 {
			return n
		}
		return 1
	}

	// A lone number is a chapter reference, not a count
	if chapterNumberPattern.MatchString(passage) {
		return 1
	}

	return 1
}
