package papi

import (
	"context"

	"github.com/platformbible/website-viewer/internal/cache"
	"github.com/platformbible/website-viewer/internal/logging"
)

// LocalizationClient resolves localize keys (e.g.
// "%websiteViewer_stepBible_title%") to strings in the host's current UI
// language. Resolutions are cached; a lookup that fails falls back to the
// key itself so titles never come up empty.
type LocalizationClient struct {
	conn  *Conn
	cache cache.Cache[string, string]
}

type localizeParams struct {
	LocalizeKey string `json:"localizeKey"`
}

// NewLocalizationClient builds a localization client with its own cache.
func NewLocalizationClient(conn *Conn) *LocalizationClient {
	return &LocalizationClient{
		conn:  conn,
		cache: cache.NewLRUCache[string, string](cache.DefaultConfig()),
	}
}

// LocalizedString resolves a localize key, returning the key unchanged when
// it is not a localize key or the host cannot resolve it.
func (c *LocalizationClient) LocalizedString(ctx context.Context, key string) string {
	if len(key) < 2 || key[0] != '%' || key[len(key)-1] != '%' {
		return key
	}
	if s, ok := c.cache.Get(key); ok {
		return s
	}

	var s string
	if err := c.conn.Request(ctx, "localization.getLocalizedString", localizeParams{LocalizeKey: key}, &s); err != nil {
		logging.Warn("falling back to raw localize key", "key", key, "error", err)
		return key
	}
	if s == "" {
		return key
	}
	c.cache.Put(key, s)
	return s
}

// Invalidate drops cached resolutions, e.g. after a UI language change.
func (c *LocalizationClient) Invalidate() {
	c.cache.Clear()
}
