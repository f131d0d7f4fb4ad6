package sites

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/platformbible/website-viewer/internal/ref"
)

// DefaultSiteID is the site used when a persisted record is missing or names
// an unknown command.
const DefaultSiteID = "stepBible"

// builtinSites returns the built-in catalog in menu order.
// User catalog entries may override any of these by ID.
func builtinSites() []*Site {
	return []*Site{
		{
			ID:      "stepBible",
			NameKey: "%websiteViewer_stepBible_title%",
			Name:    "STEP Bible",
			Watch:   WatchVerseChange,
			BuildURL: func(r ref.VerseRef) string {
				// STEP addresses passages as Book.Chapter.Verse with dots.
				book := strings.ReplaceAll(r.BookName(), " ", "")
				return fmt.Sprintf("https://www.stepbible.org/?q=reference=%s.%d.%d", book, r.Chapter, r.Verse)
			},
		},
		{
			ID:      "bibleHub",
			NameKey: "%websiteViewer_bibleHub_title%",
			Name:    "Bible Hub",
			Watch:   WatchVerseChange,
			BuildURL: func(r ref.VerseRef) string {
				// Bible Hub paths are lowercase with underscores: /1_john/4-8.htm
				slug := strings.ReplaceAll(strings.ToLower(r.BookName()), " ", "_")
				return fmt.Sprintf("https://biblehub.com/%s/%d-%d.htm", slug, r.Chapter, r.Verse)
			},
		},
		{
			ID:      "bibleGateway",
			NameKey: "%websiteViewer_bibleGateway_title%",
			Name:    "Bible Gateway",
			Watch:   WatchChapterChange,
			BuildURL: func(r ref.VerseRef) string {
				// Whole-chapter passage view; verse-level reloads would only scroll.
				search := url.QueryEscape(fmt.Sprintf("%s %d", r.BookName(), r.Chapter))
				return "https://www.biblegateway.com/passage/?search=" + search + "&version=NIV"
			},
		},
		{
			ID:      "bibleProject",
			NameKey: "%websiteViewer_bibleProject_title%",
			Name:    "BibleProject",
			Watch:   WatchBookChange,
			BuildURL: func(r ref.VerseRef) string {
				// Book overview videos; only the book matters.
				slug := strings.ReplaceAll(strings.ToLower(r.BookName()), " ", "-")
				return "https://bibleproject.com/explore/video/" + slug + "/"
			},
		},
		{
			ID:      "biblicalTraining",
			NameKey: "%websiteViewer_biblicalTraining_title%",
			Name:    "BiblicalTraining",
			Watch:   DoNotWatch,
			BuildURL: func(ref.VerseRef) string {
				return "https://www.biblicaltraining.org/"
			},
		},
	}
}
