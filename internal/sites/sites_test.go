package sites

import (
	"testing"

	"github.com/platformbible/website-viewer/internal/ref"
)

var john316 = ref.VerseRef{Book: "JHN", Chapter: 3, Verse: 16}
var firstJohn48 = ref.VerseRef{Book: "1JN", Chapter: 4, Verse: 8}

func TestRefChangeWatchString(t *testing.T) {
	tests := []struct {
		watch RefChangeWatch
		want  string
	}{
		{DoNotWatch, "none"},
		{WatchBookChange, "book"},
		{WatchChapterChange, "chapter"},
		{WatchVerseChange, "verse"},
	}

	for _, tt := range tests {
		if got := tt.watch.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.watch, got, tt.want)
		}
	}
}

func TestParseRefChangeWatch(t *testing.T) {
	tests := []struct {
		input   string
		want    RefChangeWatch
		wantErr bool
	}{
		{"none", DoNotWatch, false},
		{"", DoNotWatch, false},
		{"book", WatchBookChange, false},
		{"Chapter", WatchChapterChange, false},
		{" verse ", WatchVerseChange, false},
		{"paragraph", DoNotWatch, true},
	}

	for _, tt := range tests {
		got, err := ParseRefChangeWatch(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRefChangeWatch(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRefChangeWatch(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCommandKey(t *testing.T) {
	s := &Site{ID: "bibleHub"}
	if got := s.CommandKey(); got != "websiteViewer.openBibleHub" {
		t.Errorf("CommandKey = %q", got)
	}

	s = &Site{ID: "stepBible"}
	if got := s.CommandKey(); got != "websiteViewer.openStepBible" {
		t.Errorf("CommandKey = %q", got)
	}
}

func TestBuiltinURLs(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		siteID string
		ref    ref.VerseRef
		want   string
	}{
		{"stepBible", john316, "https://www.stepbible.org/?q=reference=John.3.16"},
		{"bibleHub", john316, "https://biblehub.com/john/3-16.htm"},
		{"bibleHub", firstJohn48, "https://biblehub.com/1_john/4-8.htm"},
		{"bibleGateway", john316, "https://www.biblegateway.com/passage/?search=John+3&version=NIV"},
		{"bibleProject", firstJohn48, "https://bibleproject.com/explore/video/1-john/"},
		{"biblicalTraining", john316, "https://www.biblicaltraining.org/"},
	}

	for _, tt := range tests {
		t.Run(tt.siteID, func(t *testing.T) {
			s, err := c.ByID(tt.siteID)
			if err != nil {
				t.Fatalf("ByID: %v", err)
			}
			if got := s.URL(tt.ref); got != tt.want {
				t.Errorf("URL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateBuilder(t *testing.T) {
	build, err := TemplateBuilder("https://example.org/{bookSlug}/{chapter}/{verse}?b={book}&n={bookNum}&q={query}")
	if err != nil {
		t.Fatalf("TemplateBuilder: %v", err)
	}

	got := build(firstJohn48)
	want := "https://example.org/1-john/4/8?b=1JN&n=62&q=1+John+4%3A8"
	if got != want {
		t.Errorf("build = %q, want %q", got, want)
	}
}

func TestTemplateBuilderValidation(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"empty", ""},
		{"no scheme", "example.org/{book}"},
		{"bad scheme", "ftp://example.org/{book}"},
		{"no host", "https:///{book}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TemplateBuilder(tt.template); err == nil {
				t.Errorf("TemplateBuilder(%q) succeeded, want error", tt.template)
			}
		})
	}
}

func TestHasPlaceholder(t *testing.T) {
	if !HasPlaceholder("https://x.org/{chapter}") {
		t.Error("expected placeholder to be detected")
	}
	if HasPlaceholder("https://x.org/static") {
		t.Error("expected no placeholder")
	}
}
