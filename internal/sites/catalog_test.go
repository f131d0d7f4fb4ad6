package sites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/platformbible/website-viewer/internal/ref"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestNewCatalogBuiltins(t *testing.T) {
	c := NewCatalog()

	if c.Len() != 5 {
		t.Errorf("Len = %d, want 5", c.Len())
	}
	if c.Default().ID != DefaultSiteID {
		t.Errorf("Default = %q, want %q", c.Default().ID, DefaultSiteID)
	}

	// Every built-in resolves by command key.
	for _, s := range c.Sites() {
		got, err := c.ByCommand(s.CommandKey())
		if err != nil {
			t.Errorf("ByCommand(%q): %v", s.CommandKey(), err)
			continue
		}
		if got.ID != s.ID {
			t.Errorf("ByCommand(%q) = %q", s.CommandKey(), got.ID)
		}
	}
}

func TestByIDNotFound(t *testing.T) {
	c := NewCatalog()
	if _, err := c.ByID("nope"); err == nil {
		t.Error("expected error for unknown site")
	}
	if _, err := c.ByCommand("websiteViewer.openNope"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestLoadUserAddsAndOverrides(t *testing.T) {
	path := writeCatalogFile(t, `
defaultSite: netBible
sites:
  - id: netBible
    name: NET Bible
    watch: chapter
    urlTemplate: "https://netbible.org/bible/{bookName}+{chapter}"
  - id: bibleHub
    name: Bible Hub Interlinear
    watch: verse
    urlTemplate: "https://biblehub.com/interlinear/{bookSlug}/{chapter}-{verse}.htm"
`)

	c := NewCatalog()
	if err := c.LoadUser(path); err != nil {
		t.Fatalf("LoadUser: %v", err)
	}

	if c.Len() != 6 {
		t.Errorf("Len = %d, want 6", c.Len())
	}

	// New site appended
	net, err := c.ByID("netBible")
	if err != nil {
		t.Fatalf("ByID(netBible): %v", err)
	}
	if net.Watch != WatchChapterChange {
		t.Errorf("netBible watch = %v", net.Watch)
	}
	wantURL := "https://netbible.org/bible/John+3"
	if got := net.URL(ref.VerseRef{Book: "JHN", Chapter: 3, Verse: 16}); got != wantURL {
		t.Errorf("netBible URL = %q, want %q", got, wantURL)
	}

	// Built-in overridden in place, keeping menu order
	hub, _ := c.ByID("bibleHub")
	if hub.Name != "Bible Hub Interlinear" {
		t.Errorf("bibleHub name = %q", hub.Name)
	}
	if c.Sites()[1].ID != "bibleHub" {
		t.Errorf("bibleHub lost its menu position: %v", c.Sites()[1].ID)
	}

	// Default switched by the user file
	if c.Default().ID != "netBible" {
		t.Errorf("Default = %q, want netBible", c.Default().ID)
	}
}

func TestLoadUserMissingFile(t *testing.T) {
	c := NewCatalog()
	if err := c.LoadUser(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("LoadUser on missing file: %v", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len = %d, want builtins only", c.Len())
	}
}

func TestLoadUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad yaml",
			content: "sites: [",
		},
		{
			name: "missing id",
			content: `
sites:
  - name: Nameless
    urlTemplate: "https://x.org/{book}"
`,
		},
		{
			name: "duplicate id",
			content: `
sites:
  - id: dup
    name: One
    urlTemplate: "https://x.org/a"
  - id: dup
    name: Two
    urlTemplate: "https://x.org/b"
`,
		},
		{
			name: "missing name",
			content: `
sites:
  - id: anon
    urlTemplate: "https://x.org/{book}"
`,
		},
		{
			name: "bad watch level",
			content: `
sites:
  - id: s
    name: S
    watch: paragraph
    urlTemplate: "https://x.org/{book}"
`,
		},
		{
			name: "watching without placeholder",
			content: `
sites:
  - id: s
    name: S
    watch: verse
    urlTemplate: "https://x.org/static"
`,
		},
		{
			name: "bad template scheme",
			content: `
sites:
  - id: s
    name: S
    watch: verse
    urlTemplate: "ftp://x.org/{verse}"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			if err := c.LoadUser(writeCatalogFile(t, tt.content)); err == nil {
				t.Error("expected LoadUser to fail")
			}
		})
	}
}

func TestReload(t *testing.T) {
	path := writeCatalogFile(t, `
sites:
  - id: siteA
    name: Site A
    watch: verse
    urlTemplate: "https://a.org/{query}"
`)

	c := NewCatalog()
	if err := c.LoadUser(path); err != nil {
		t.Fatalf("LoadUser: %v", err)
	}

	// Unchanged content: no reload.
	changed, err := c.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if changed {
		t.Error("Reload reported change for identical content")
	}

	// Replace siteA with siteB: siteA must disappear after reload.
	if err := os.WriteFile(path, []byte(`
sites:
  - id: siteB
    name: Site B
    watch: book
    urlTemplate: "https://b.org/{bookSlug}"
`), 0o644); err != nil {
		t.Fatalf("rewrite catalog: %v", err)
	}

	changed, err = c.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !changed {
		t.Fatal("Reload did not detect changed content")
	}
	if _, err := c.ByID("siteA"); err == nil {
		t.Error("siteA should be gone after reload")
	}
	if _, err := c.ByID("siteB"); err != nil {
		t.Errorf("siteB missing after reload: %v", err)
	}
}

func TestReloadWithoutUserCatalog(t *testing.T) {
	c := NewCatalog()
	changed, err := c.Reload()
	if err != nil || changed {
		t.Errorf("Reload = %v, %v; want false, nil", changed, err)
	}
}

func TestDefaultFallsBackToBuiltin(t *testing.T) {
	c := NewCatalog()
	c.defaultID = "vanished"
	if c.Default().ID != DefaultSiteID {
		t.Errorf("Default = %q, want %q", c.Default().ID, DefaultSiteID)
	}
}
