package sites

import (
	"strings"
	"testing"

	"github.com/platformbible/website-viewer/internal/ref"
)

const netBibleOpenSearch = `<?xml version="1.0" encoding="UTF-8"?>
<OpenSearchDescription xmlns="http://a9.com/-/spec/opensearch/1.1/">
  <ShortName>NET Bible</ShortName>
  <Description>Search the NET Bible</Description>
  <Url type="text/html" template="https://netbible.org/search?q={searchTerms}"/>
</OpenSearchDescription>`

func TestImportOpenSearch(t *testing.T) {
	entry, err := ImportOpenSearch(strings.NewReader(netBibleOpenSearch), "netBible", WatchVerseChange)
	if err != nil {
		t.Fatalf("ImportOpenSearch: %v", err)
	}

	if entry.ID != "netBible" {
		t.Errorf("ID = %q", entry.ID)
	}
	if entry.Name != "NET Bible" {
		t.Errorf("Name = %q, want ShortName from document", entry.Name)
	}
	if entry.Watch != "verse" {
		t.Errorf("Watch = %q", entry.Watch)
	}
	if entry.URLTemplate != "https://netbible.org/search?q={query}" {
		t.Errorf("URLTemplate = %q", entry.URLTemplate)
	}

	// The derived template must compile and render.
	build, err := TemplateBuilder(entry.URLTemplate)
	if err != nil {
		t.Fatalf("TemplateBuilder: %v", err)
	}
	got := build(ref.VerseRef{Book: "JHN", Chapter: 3, Verse: 16})
	if got != "https://netbible.org/search?q=John+3%3A16" {
		t.Errorf("build = %q", got)
	}
}

func TestImportOpenSearchNoTypeAttr(t *testing.T) {
	doc := `<OpenSearchDescription xmlns="http://a9.com/-/spec/opensearch/1.1/">
  <Url template="https://example.org/find?q={searchTerms}"/>
</OpenSearchDescription>`

	entry, err := ImportOpenSearch(strings.NewReader(doc), "example", WatchChapterChange)
	if err != nil {
		t.Fatalf("ImportOpenSearch: %v", err)
	}
	if entry.Name != "example" {
		t.Errorf("Name = %q, want id fallback", entry.Name)
	}
	if entry.URLTemplate != "https://example.org/find?q={query}" {
		t.Errorf("URLTemplate = %q", entry.URLTemplate)
	}
}

func TestImportOpenSearchErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no url element",
			doc:  `<OpenSearchDescription><ShortName>X</ShortName></OpenSearchDescription>`,
		},
		{
			name: "no searchTerms placeholder",
			doc:  `<OpenSearchDescription><Url type="text/html" template="https://x.org/fixed"/></OpenSearchDescription>`,
		},
		{
			name: "relative template",
			doc:  `<OpenSearchDescription><Url type="text/html" template="/search?q={searchTerms}"/></OpenSearchDescription>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportOpenSearch(strings.NewReader(tt.doc), "x", WatchVerseChange); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestYAMLSnippet(t *testing.T) {
	entry := &Entry{
		ID:          "netBible",
		Name:        "NET Bible",
		Watch:       "verse",
		URLTemplate: "https://netbible.org/search?q={query}",
	}

	snippet := entry.YAMLSnippet()
	for _, want := range []string{"- id: netBible", "name: NET Bible", "watch: verse", `urlTemplate: "https://netbible.org/search?q={query}"`} {
		if !strings.Contains(snippet, want) {
			t.Errorf("snippet missing %q:\n%s", want, snippet)
		}
	}
}
