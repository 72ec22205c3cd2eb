package scripture

// Testament identifies which part of the canon a book belongs to
type Testament string

const (
	TestamentOld Testament = "old"
	TestamentNew Testament = "new"
)

// Book type identifiers used by free-reading plans
const (
	BookTypeBible     = "bible"
	BookTypeApocrypha = "apocrypha"
)

// Book represents a single book of the canon with its chapter count
type Book struct {
	Name      string
	Chapters  int
	Testament Testament
}

// Books lists the 66-book Protestant canon in traditional order
var Books = []Book{
	{Name: "Genesis", Chapters: 50, Testament: TestamentOld},
	{Name: "Exodus", Chapters: 40, Testament: TestamentOld},
	{Name: "Leviticus", Chapters: 27, Testament: TestamentOld},
	{Name: "Numbers", Chapters: 36, Testament: TestamentOld},
	{Name: "Deuteronomy", Chapters: 34, Testament: TestamentOld},
	{Name: "Joshua", Chapters: 24, Testament: TestamentOld},
	{Name: "Judges", Chapters: 21, Testament: TestamentOld},
	{Name: "Ruth", Chapters: 4, Testament: TestamentOld},
	{Name: "1 Samuel", Chapters: 31, Testament: TestamentOld},
	{Name: "2 Samuel", Chapters: 24, Testament: TestamentOld},
	{Name: "1 Kings", Chapters: 22, Testament: TestamentOld},
	{Name: "2 Kings", Chapters: 25, Testament: TestamentOld},
	{Name: "1 Chronicles", Chapters: 29, Testament: TestamentOld},
	{Name: "2 Chronicles", Chapters: 36, Testament: TestamentOld},
	{Name: "Ezra", Chapters: 10, Testament: TestamentOld},
	{Name: "Nehemiah", Chapters: 13, Testament: TestamentOld},
	{Name: "Esther", Chapters: 10, Testament: TestamentOld},
	{Name: "Job", Chapters: 42, Testament: TestamentOld},
	{Name: "Psalms", Chapters: 150, Testament: TestamentOld},
	{Name: "Proverbs", Chapters: 31, Testament: TestamentOld},
	{Name: "Ecclesiastes", Chapters: 12, Testament: TestamentOld},
	{Name: "Song of Solomon", Chapters: 8, Testament: TestamentOld},
	{Name: "Isaiah", Chapters: 66, Testament: TestamentOld},
	{Name: "Jeremiah", Chapters: 52, Testament: TestamentOld},
	{Name: "Lamentations", Chapters: 5, Testament: TestamentOld},
	{Name: "Ezekiel", Chapters: 48, Testament: TestamentOld},
	{Name: "Daniel", Chapters: 12, Testament: TestamentOld},
	{Name: "Hosea", Chapters: 14, Testament: TestamentOld},
	{Name: "Joel", Chapters: 3, Testament: TestamentOld},
	{Name: "Amos", Chapters: 9, Testament: TestamentOld},
	{Name: "Obadiah", Chapters: 1, Testament: TestamentOld},
	{Name: "Jonah", Chapters: 4, Testament: TestamentOld},
	{Name: "Micah", Chapters: 7, Testament: TestamentOld},
	{Name: "Nahum", Chapters: 3, Testament: TestamentOld},
	{Name: "Habakkuk", Chapters: 3, Testament: TestamentOld},
	{Name: "Zephaniah", Chapters: 3, Testament: TestamentOld},
	{Name: "Haggai", Chapters: 2, Testament: TestamentOld},
	{Name: "Zechariah", Chapters: 14, Testament: TestamentOld},
	{Name: "Malachi", Chapters: 4, Testament: TestamentOld},
	{Name: "Matthew", Chapters: 28, Testament: TestamentNew},
	{Name: "Mark", Chapters: 16, Testament: TestamentNew},
	{Name: "Luke", Chapters: 24, Testament: TestamentNew},
	{Name: "John", Chapters: 21, Testament: TestamentNew},
	{Name: "Acts", Chapters: 28, Testament: TestamentNew},
	{Name: "Romans", Chapters: 16, Testament: TestamentNew},
	{Name: "1 Corinthians", Chapters: 16, Testament: TestamentNew},
	{Name: "2 Corinthians", Chapters: 13, Testament: TestamentNew},
	{Name: "Galatians", Chapters: 6, Testament: TestamentNew},
	{Name: "Ephesians", Chapters: 6, Testament: TestamentNew},
	{Name: "Philippians", Chapters: 4, Testament: TestamentNew},
	{Name: "Colossians", Chapters: 4, Testament: TestamentNew},
	{Name: "1 Thessalonians", Chapters: 5, Testament: TestamentNew},
	{Name: "2 Thessalonians", Chapters: 3, Testament: TestamentNew},
	{Name: "1 Timothy", Chapters: 6, Testament: TestamentNew},
	{Name: "2 Timothy", Chapters: 4, Testament: TestamentNew},
	{Name: "Titus", Chapters: 3, Testament: TestamentNew},
	{Name: "Philemon", Chapters: 1, Testament: TestamentNew},
	{Name: "Hebrews", Chapters: 13, Testament: TestamentNew},
	{Name: "James", Chapters: 5, Testament: TestamentNew},
	{Name: "1 Peter", Chapters: 5, Testament: TestamentNew},
	{Name: "2 Peter", Chapters: 3, Testament: TestamentNew},
	{Name: "1 John", Chapters: 5, Testament: TestamentNew},
	{Name: "2 John", Chapters: 1, Testament: TestamentNew},
	{Name: "3 John", Chapters: 1, Testament: TestamentNew},
	{Name: "Jude", Chapters: 1, Testament: TestamentNew},
	{Name: "Revelation", Chapters: 22, Testament: TestamentNew},
}

// ApocryphaBooks lists the deuterocanonical books tracked for apocrypha
// free-reading plans
var ApocryphaBooks = []Book{
	{Name: "Tobit", Chapters: 14, Testament: TestamentOld},
	{Name: "Judith", Chapters: 16, Testament: TestamentOld},
	{Name: "Wisdom of Solomon", Chapters: 19, Testament: TestamentOld},
	{Name: "Sirach", Chapters: 51, Testament: TestamentOld},
	{Name: "Baruch", Chapters: 6, Testament: TestamentOld},
	{Name: "1 Maccabees", Chapters: 16, Testament: TestamentOld},
	{Name: "2 Maccabees", Chapters: 15, Testament: TestamentOld},
}

// BooksFor returns the book list for a free-reading book type.
// Unknown types fall back to the standard canon.
func BooksFor(bookType string) []Book {
	if bookType == BookTypeApocrypha {
		return ApocryphaBooks
	}
	return Books
}

// TotalChapters returns the total chapter count for a book type.
// The standard canon sums to 1189.
func TotalChapters(bookType string) int {
	total := 0
	for _, b := range BooksFor(bookType) {
		total += b.Chapters
	}
	return total
}

// FindBook looks up a book by exact name in both the canon and the apocrypha
func FindBook(name string) (Book, bool) {
	for _, b := range Books {
		if b.Name == name {
			return b, true
		}
	}
	for _, b := range ApocryphaBooks {
		if b.Name == name {
			return b, true
		}
	}
	return Book{}, false
}

// OldTestamentBooks returns the books of the Old Testament in canon order
func OldTestamentBooks() []Book {
	return booksByTestament(TestamentOld)
}

// NewTestamentBooks returns the books of the New Testament in canon order
func NewTestamentBooks() []Book {
	return booksByTestament(TestamentNew)
}

func booksByTestament(t Testament) []Book {
	var out []Book
	for _, b := range Books {
		if b.Testament == t {
			out = append(out, b)
		}
	}
	return out
}
