package sites

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
)

// OpenSearch description documents advertise a search URL template with a
// {searchTerms} placeholder. Importing one yields a catalog entry whose
// template feeds the display reference ("John 3:16") in as the search terms.

// ImportOpenSearch derives a user catalog entry from an OpenSearch
// description document. The id must be supplied by the caller; the display
// name comes from the document's ShortName.
func ImportOpenSearch(r io.Reader, id string, watch RefChangeWatch) (*Entry, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, apperrors.NewParse("XML", "", err.Error())
	}

	urlNode := xmlquery.FindOne(doc, "//*[local-name()='Url'][@type='text/html']")
	if urlNode == nil {
		// Some documents omit the type attribute on their only Url element.
		urlNode = xmlquery.FindOne(doc, "//*[local-name()='Url'][@template]")
	}
	if urlNode == nil {
		return nil, apperrors.NewParse("OpenSearch", "", "no Url element with a template")
	}

	template := urlNode.SelectAttr("template")
	if !strings.Contains(template, "{searchTerms}") {
		return nil, apperrors.NewParse("OpenSearch", "", "Url template has no {searchTerms} placeholder")
	}

	name := id
	if n := xmlquery.FindOne(doc, "//*[local-name()='ShortName']"); n != nil {
		if text := strings.TrimSpace(n.InnerText()); text != "" {
			name = text
		}
	}

	entry := &Entry{
		ID:          id,
		Name:        name,
		Watch:       watch.String(),
		URLTemplate: strings.ReplaceAll(template, "{searchTerms}", "{query}"),
	}

	// Compile once so a broken template fails at import, not at render.
	if _, err := TemplateBuilder(entry.URLTemplate); err != nil {
		return nil, err
	}

	return entry, nil
}

// YAMLSnippet renders the entry as a user catalog sites list item.
func (e *Entry) YAMLSnippet() string {
	var sb strings.Builder
	sb.WriteString("sites:\n")
	sb.WriteString("  - id: " + e.ID + "\n")
	sb.WriteString("    name: " + e.Name + "\n")
	if e.NameKey != "" {
		sb.WriteString("    nameKey: " + e.NameKey + "\n")
	}
	sb.WriteString("    watch: " + e.Watch + "\n")
	sb.WriteString("    urlTemplate: \"" + e.URLTemplate + "\"\n")
	return sb.String()
}
