package viewer

import (
	"github.com/platformbible/website-viewer/internal/ref"
	"github.com/platformbible/website-viewer/internal/sites"
)

// Position is the last rendered state of a web view: the scroll group it
// follows (nil = untethered) and the reference its URL was computed from.
type Position struct {
	ScrollGroupID *int
	Ref           ref.VerseRef
}

// SameGroup reports whether the position follows the given scroll group.
func (p Position) SameGroup(scrollGroupID *int) bool {
	if p.ScrollGroupID == nil || scrollGroupID == nil {
		return p.ScrollGroupID == nil && scrollGroupID == nil
	}
	return *p.ScrollGroupID == *scrollGroupID
}

// Decision is the outcome of the change-detection policy for one view.
type Decision struct {
	Reload bool
	Reason string
}

// Decide applies the change-detection policy: given a site's watch
// sensitivity, the view's last rendered position (nil when the view has
// never rendered) and the incoming position, it says whether the view's URL
// must be recomputed.
//
// A scroll-group switch always reloads, whatever the sensitivity: the view
// changed which reading position it follows, including switching to or from
// "no scroll group". Otherwise the old and new references are compared at
// the site's granularity.
func Decide(watch sites.RefChangeWatch, prev *Position, scrollGroupID *int, next ref.VerseRef) Decision {
	if prev == nil {
		return Decision{Reload: true, Reason: "first render"}
	}
	if !prev.SameGroup(scrollGroupID) {
		return Decision{Reload: true, Reason: "scroll group changed"}
	}

	switch watch {
	case sites.WatchBookChange:
		if !prev.Ref.SameBook(next) {
			return Decision{Reload: true, Reason: "book changed"}
		}
	case sites.WatchChapterChange:
		if !prev.Ref.SameChapter(next) {
			return Decision{Reload: true, Reason: "chapter changed"}
		}
	case sites.WatchVerseChange:
		if !prev.Ref.Equal(next) {
			return Decision{Reload: true, Reason: "verse changed"}
		}
	case sites.DoNotWatch:
		return Decision{Reason: "not watching"}
	}
	return Decision{Reason: "position unchanged"}
}
