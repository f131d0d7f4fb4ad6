// Package sites defines the catalog of embeddable Bible-study websites:
// which command opens each site, how to build a URL for a scripture
// position, and how sensitive the site is to position changes.
package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
	"github.com/platformbible/website-viewer/internal/ref"
)

// RefChangeWatch is a site's sensitivity to scripture-reference changes.
// Coarser levels subsume finer ones: a site watching chapter changes also
// reloads when the book changes, never when only the verse does.
type RefChangeWatch int

const (
	// DoNotWatch means the site ignores reference changes entirely.
	DoNotWatch RefChangeWatch = iota
	// WatchBookChange reloads only when the book changes.
	WatchBookChange
	// WatchChapterChange reloads when the book or chapter changes.
	WatchChapterChange
	// WatchVerseChange reloads on any reference change.
	WatchVerseChange
)

// String returns the configuration name of the watch level.
func (w RefChangeWatch) String() string {
	switch w {
	case DoNotWatch:
		return "none"
	case WatchBookChange:
		return "book"
	case WatchChapterChange:
		return "chapter"
	case WatchVerseChange:
		return "verse"
	default:
		return fmt.Sprintf("RefChangeWatch(%d)", int(w))
	}
}

// ParseRefChangeWatch converts a configuration name to a watch level.
func ParseRefChangeWatch(name string) (RefChangeWatch, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return DoNotWatch, nil
	case "book":
		return WatchBookChange, nil
	case "chapter":
		return WatchChapterChange, nil
	case "verse":
		return WatchVerseChange, nil
	default:
		return DoNotWatch, apperrors.NewValidation("watch", fmt.Sprintf("unknown watch level %q", name))
	}
}

// URLBuilder computes the site URL for a scripture position.
type URLBuilder func(r ref.VerseRef) string

// Site is one embeddable website.
type Site struct {
	// ID identifies the site and forms its command key ("websiteViewer.open<ID>").
	ID string
	// NameKey is the localization key for the display name.
	NameKey string
	// Name is the fallback display name when localization is unavailable.
	Name string
	// Watch is the site's change sensitivity.
	Watch RefChangeWatch
	// BuildURL computes the content URL for a position.
	BuildURL URLBuilder
}

// CommandKeyPrefix prefixes every site command registered with the host.
const CommandKeyPrefix = "websiteViewer.open"

// CommandKey returns the host command key that opens this site.
func (s *Site) CommandKey() string {
	if s.ID == "" {
		return CommandKeyPrefix
	}
	return CommandKeyPrefix + strings.ToUpper(s.ID[:1]) + s.ID[1:]
}

// URL computes the content URL for a position. Sites that do not watch
// reference changes ignore the position.
func (s *Site) URL(r ref.VerseRef) string {
	return s.BuildURL(r)
}

// Template placeholders understood by TemplateBuilder:
//
//	{book}      USFM book code (JHN)
//	{bookNum}   1-based canon number (43)
//	{bookName}  English name, query-escaped (John, 1+John)
//	{bookSlug}  lowercase English name, spaces as hyphens (1-john)
//	{chapter}   chapter number
//	{verse}     verse number
//	{query}     full display reference, query-escaped (John+3%3A16)
var templatePlaceholders = []string{
	"{book}", "{bookNum}", "{bookName}", "{bookSlug}", "{chapter}", "{verse}", "{query}",
}

// TemplateBuilder compiles a URL template with placeholders into a URLBuilder.
// Returns an error when the template is not an absolute http(s) URL.
func TemplateBuilder(template string) (URLBuilder, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	return func(r ref.VerseRef) string {
		name := r.BookName()
		replacer := strings.NewReplacer(
			"{book}", r.Book,
			"{bookNum}", strconv.Itoa(r.BookNum()),
			"{bookName}", url.QueryEscape(name),
			"{bookSlug}", strings.ReplaceAll(strings.ToLower(name), " ", "-"),
			"{chapter}", strconv.Itoa(r.Chapter),
			"{verse}", strconv.Itoa(r.Verse),
			"{query}", url.QueryEscape(r.Display()),
		)
		return replacer.Replace(template)
	}, nil
}

// validateTemplate checks that a template is an absolute http(s) URL once
// placeholders are stripped out.
func validateTemplate(template string) error {
	if template == "" {
		return apperrors.NewValidation("urlTemplate", "is required")
	}

	probe := template
	for _, p := range templatePlaceholders {
		probe = strings.ReplaceAll(probe, p, "1")
	}

	u, err := url.Parse(probe)
	if err != nil {
		return apperrors.NewValidation("urlTemplate", fmt.Sprintf("not a valid URL: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperrors.NewValidation("urlTemplate", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return apperrors.NewValidation("urlTemplate", "missing host")
	}
	return nil
}

// HasPlaceholder reports whether the template references any position placeholder.
func HasPlaceholder(template string) bool {
	for _, p := range templatePlaceholders {
		if strings.Contains(template, p) {
			return true
		}
	}
	return false
}
