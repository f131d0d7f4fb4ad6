package ref

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    VerseRef
		wantErr bool
	}{
		{
			name:  "full reference",
			input: "John 3:16",
			want:  VerseRef{Book: "JHN", Chapter: 3, Verse: 16},
		},
		{
			name:  "abbreviated book",
			input: "Jn 3:16",
			want:  VerseRef{Book: "JHN", Chapter: 3, Verse: 16},
		},
		{
			name:  "abbreviated with period",
			input: "Jn. 3:16",
			want:  VerseRef{Book: "JHN", Chapter: 3, Verse: 16},
		},
		{
			name:  "dot separators",
			input: "Jn.3.16",
			want:  VerseRef{Book: "JHN", Chapter: 3, Verse: 16},
		},
		{
			name:  "mixed dot separator",
			input: "Jn 3.16",
			want:  VerseRef{Book: "JHN", Chapter: 3, Verse: 16},
		},
		{
			name:  "chapter only defaults verse",
			input: "John 3",
			want:  VerseRef{Book: "JHN", Chapter: 3, Verse: 1},
		},
		{
			name:  "book only defaults chapter and verse",
			input: "John",
			want:  VerseRef{Book: "JHN", Chapter: 1, Verse: 1},
		},
		{
			name:  "numbered book",
			input: "1 Corinthians 13:4",
			want:  VerseRef{Book: "1CO", Chapter: 13, Verse: 4},
		},
		{
			name:  "numbered book abbreviation",
			input: "1Jn 4:8",
			want:  VerseRef{Book: "1JN", Chapter: 4, Verse: 8},
		},
		{
			name:  "multi-word book",
			input: "Song of Solomon 2:1",
			want:  VerseRef{Book: "SNG", Chapter: 2, Verse: 1},
		},
		{
			name:  "numbered book with dots",
			input: "1 John.4.8",
			want:  VerseRef{Book: "1JN", Chapter: 4, Verse: 8},
		},
		{
			name:    "unknown book",
			input:   "Atlantis 3:16",
			wantErr: true,
		},
		{
			name:    "out of range chapter",
			input:   "John 99:1",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   ":::",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded with %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSeparators(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jn.3.16", "Jn 3:16"},
		{"Jn 3.16", "Jn 3:16"},
		{"Jn 3:16", "Jn 3:16"},
		{"John", "John"},
		{"Gen.1", "Gen 1"},
	}

	for _, tt := range tests {
		if got := normalizeSeparators(tt.input); got != tt.want {
			t.Errorf("normalizeSeparators(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
