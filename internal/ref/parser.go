package ref

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
)

// parsedRef is the participle grammar for a single scripture position.
// Chapter and verse are optional: "John", "John 3" and "John 3:16" all parse.
type parsedRef struct {
	Book    string `parser:"@Book"`
	Chapter *int   `parser:"( @Number"`
	Verse   *int   `parser:"( ':' @Number )? )?"`
}

// refLexer tokenizes scripture references.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Book names: letters with an optional leading ordinal and trailing period
	// Examples: John, Jn, Jn., 1John, 1 John, Song of Solomon
	{Name: "Book", Pattern: `(?:\d\s*)?[A-Za-z]+(?:\s+(?:of\s+)?[A-Za-z]+)*\.?`},
	// Numbers (chapter/verse)
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refParser parses scripture references.
var refParser = participle.MustBuild[parsedRef](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a human-entered scripture reference into a VerseRef.
// Supported forms:
//   - "John 3:16" (book chapter:verse)
//   - "Jn 3:16" (abbreviated book)
//   - "Jn.3.16" or "Jn 3.16" (dot separator)
//   - "John 3" (chapter, verse defaults to 1)
//   - "John" (book, chapter and verse default to 1)
func Parse(input string) (VerseRef, error) {
	normalized := normalizeSeparators(input)

	parsed, err := refParser.ParseString("", normalized)
	if err != nil {
		return VerseRef{}, apperrors.NewParse("reference", "", err.Error())
	}

	code, ok := NormalizeBook(parsed.Book)
	if !ok {
		return VerseRef{}, apperrors.NewNotFound("book", strings.TrimSpace(parsed.Book))
	}

	r := VerseRef{Book: code, Chapter: 1, Verse: 1}
	if parsed.Chapter != nil {
		r.Chapter = *parsed.Chapter
	}
	if parsed.Verse != nil {
		r.Verse = *parsed.Verse
	}

	if !r.Valid() {
		return VerseRef{}, apperrors.NewValidation("reference", r.String()+" is out of range")
	}

	return r, nil
}

// normalizeSeparators converts dot separators to standard colon format.
// "Jn.3.16" -> "Jn 3:16"
// "Jn 3.16" -> "Jn 3:16"
func normalizeSeparators(input string) string {
	result := input

	parts := strings.Split(result, ".")
	if len(parts) >= 2 {
		book := parts[0]
		rest := parts[1:]

		// If everything after the first dot is numeric, rejoin with proper separators
		allNumbers := true
		for _, p := range rest {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			for _, c := range p {
				if c < '0' || c > '9' {
					allNumbers = false
					break
				}
			}
		}

		if allNumbers && len(rest) > 0 {
			if len(rest) == 1 {
				// "Jn 3.16": the chapter rides along with the book part,
				// so the number after the dot is the verse.
				fields := strings.Fields(book)
				if len(fields) >= 2 && isNumeric(fields[len(fields)-1]) {
					result = strings.Join(fields[:len(fields)-1], " ") +
						" " + fields[len(fields)-1] + ":" + rest[0]
				} else {
					result = book + " " + rest[0]
				}
			} else {
				result = book + " " + rest[0] + ":" + strings.Join(rest[1:], ":")
			}
		}
	}

	return result
}

// isNumeric reports whether s is a non-empty run of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
