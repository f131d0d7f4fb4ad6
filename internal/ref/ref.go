// Package ref models scripture references the way the host serializes them:
// a USFM book code plus 1-based chapter and verse numbers.
package ref

import (
	"fmt"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
)

// VerseRef is a single scripture position. The JSON field names match the
// host's serialized verse reference form.
type VerseRef struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapterNum"`
	Verse   int    `json:"verseNum"`
}

// Valid reports whether the reference names a known book and positive
// chapter and verse numbers within the book's chapter count.
func (r VerseRef) Valid() bool {
	b, ok := BookByCode(r.Book)
	if !ok {
		return false
	}
	return r.Chapter >= 1 && r.Chapter <= b.Chapters && r.Verse >= 1
}

// IsZero reports whether the reference is the zero value.
func (r VerseRef) IsZero() bool {
	return r.Book == "" && r.Chapter == 0 && r.Verse == 0
}

// String returns the compact canonical form, e.g. "JHN 3:16".
func (r VerseRef) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Display returns the human-readable form, e.g. "John 3:16".
// Unknown book codes fall back to the compact form.
func (r VerseRef) Display() string {
	b, ok := BookByCode(r.Book)
	if !ok {
		return r.String()
	}
	return fmt.Sprintf("%s %d:%d", b.Name, r.Chapter, r.Verse)
}

// BookNum returns the 1-based canon number of the book, or 0 if unknown.
func (r VerseRef) BookNum() int {
	b, ok := BookByCode(r.Book)
	if !ok {
		return 0
	}
	return b.Num
}

// BookName returns the English display name of the book, or the raw code if unknown.
func (r VerseRef) BookName() string {
	b, ok := BookByCode(r.Book)
	if !ok {
		return r.Book
	}
	return b.Name
}

// SameBook reports whether both references are in the same book.
func (r VerseRef) SameBook(other VerseRef) bool {
	return r.Book == other.Book
}

// SameChapter reports whether both references are in the same book and chapter.
func (r VerseRef) SameChapter(other VerseRef) bool {
	return r.Book == other.Book && r.Chapter == other.Chapter
}

// Equal reports whether both references name the same verse.
func (r VerseRef) Equal(other VerseRef) bool {
	return r.Book == other.Book && r.Chapter == other.Chapter && r.Verse == other.Verse
}

// New builds a validated VerseRef from a book code or name.
func New(book string, chapter, verse int) (VerseRef, error) {
	code, ok := NormalizeBook(book)
	if !ok {
		return VerseRef{}, apperrors.NewNotFound("book", book)
	}
	r := VerseRef{Book: code, Chapter: chapter, Verse: verse}
	if !r.Valid() {
		return VerseRef{}, apperrors.NewValidation("reference", fmt.Sprintf("%s is out of range", r))
	}
	return r, nil
}

// Default is the reference used when the host reports no position yet.
var Default = VerseRef{Book: "GEN", Chapter: 1, Verse: 1}
