package papi

import (
	"context"
	"encoding/json"

	"github.com/platformbible/website-viewer/internal/logging"
	"github.com/platformbible/website-viewer/internal/ref"
)

// ScrollGroupsClient reads and watches the shared scripture positions the
// host keeps per scroll group.
type ScrollGroupsClient struct {
	conn *Conn
}

type getScrRefParams struct {
	ScrollGroupID int `json:"scrollGroupId"`
}

// ScrRefChange is the "scrollGroups.scrRefChanged" event payload.
type ScrRefChange struct {
	ScrollGroupID int          `json:"scrollGroupId"`
	ScrRef        ref.VerseRef `json:"scrRef"`
}

// GetScrRef fetches the current reference of one scroll group.
func (c *ScrollGroupsClient) GetScrRef(ctx context.Context, scrollGroupID int) (ref.VerseRef, error) {
	var r ref.VerseRef
	err := c.conn.Request(ctx, "scrollGroups.getScrRef", getScrRefParams{ScrollGroupID: scrollGroupID}, &r)
	if err != nil {
		return ref.VerseRef{}, err
	}
	return r, nil
}

// OnScrRefChanged subscribes to scroll position changes across all groups.
func (c *ScrollGroupsClient) OnScrRefChanged(handler func(change *ScrRefChange)) {
	c.conn.Subscribe("scrollGroups.scrRefChanged", func(payload json.RawMessage) {
		var change ScrRefChange
		if err := json.Unmarshal(payload, &change); err != nil {
			logging.Warn("dropping malformed scroll position event", "error", err)
			return
		}
		handler(&change)
	})
}
