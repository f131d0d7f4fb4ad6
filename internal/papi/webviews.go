package papi

import (
	"context"
	"encoding/json"

	"github.com/platformbible/website-viewer/internal/logging"
	"github.com/platformbible/website-viewer/internal/ref"
)

// WebViewDefinition describes one web view the host renders. For URL content
// the host loads Content in an iframe-like panel.
type WebViewDefinition struct {
	ID          string `json:"id"`
	WebViewType string `json:"webViewType"`
	Title       string `json:"title"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
	IconURL     string `json:"iconUrl,omitempty"`
	// AllowPopups lets the embedded site open its own windows. Some study
	// sites need it for cross-reference popouts.
	AllowPopups bool `json:"allowPopups,omitempty"`
}

// ContentTypeURL marks a web view whose content is a URL to load.
const ContentTypeURL = "url"

// GetWebViewOptions steers how the host materializes a requested web view.
type GetWebViewOptions struct {
	// ExistingID asks for a specific saved view to be recreated ("?" asks
	// the host to pick any existing view of the type, per the host API).
	ExistingID string `json:"existingId,omitempty"`
	// BringToFront focuses the view if it already exists.
	BringToFront bool `json:"bringToFront,omitempty"`
	// CommandKey is passed through to the provider so it knows which
	// command asked for the view. Empty when the host restores a saved
	// view on its own.
	CommandKey string `json:"commandKey,omitempty"`
}

// ScrollGroupScrRef is the scroll position a web view is synced to: which
// scroll group it follows (nil = untethered) and the current reference.
type ScrollGroupScrRef struct {
	ScrollGroupID *int         `json:"scrollGroupId,omitempty"`
	ScrRef        ref.VerseRef `json:"scrRef"`
}

// GetWebViewRequest is what the host sends when it needs a web view of a
// registered type: the saved definition if one is being restored, plus the
// open options, plus the view's current scroll sync state.
type GetWebViewRequest struct {
	SavedDefinition *WebViewDefinition `json:"savedWebView,omitempty"`
	Options         GetWebViewOptions  `json:"options"`
	ScrollGroupRef  *ScrollGroupScrRef `json:"scrollGroupScrRef,omitempty"`
}

// WebViewProvider produces definitions when the host requests a web view of
// the provider's type. Returning a nil definition tells the host not to open
// anything.
type WebViewProvider func(ctx context.Context, req *GetWebViewRequest) (*WebViewDefinition, error)

// WebViewUpdate is the "webViews.updated" event payload.
type WebViewUpdate struct {
	WebView        WebViewDefinition  `json:"webView"`
	ScrollGroupRef *ScrollGroupScrRef `json:"scrollGroupScrRef,omitempty"`
}

// WebViewsClient manages host web views.
type WebViewsClient struct {
	conn *Conn
}

type registerProviderParams struct {
	WebViewType string `json:"webViewType"`
}

type openWebViewParams struct {
	WebViewType string            `json:"webViewType"`
	Options     GetWebViewOptions `json:"options"`
}

// RegisterProvider announces a web view type and installs the provider the
// host calls back on "webViewProvider.getWebView.<type>".
func (c *WebViewsClient) RegisterProvider(ctx context.Context, webViewType string, provider WebViewProvider) error {
	c.conn.Handle("webViewProvider.getWebView."+webViewType, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var req GetWebViewRequest
		if len(params) > 0 {
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, err
			}
		}
		return provider(ctx, &req)
	})
	return c.conn.Request(ctx, "webViewProviders.register", registerProviderParams{WebViewType: webViewType}, nil)
}

// Open asks the host to open (or re-focus) a web view of the given type and
// returns the view ID the host assigned.
func (c *WebViewsClient) Open(ctx context.Context, webViewType string, options GetWebViewOptions) (string, error) {
	var viewID string
	err := c.conn.Request(ctx, "webViews.open", openWebViewParams{WebViewType: webViewType, Options: options}, &viewID)
	if err != nil {
		return "", err
	}
	return viewID, nil
}

type updateWebViewParams struct {
	WebViewID string             `json:"webViewId"`
	WebView   *WebViewDefinition `json:"webView"`
}

// Update replaces the definition of an existing web view, e.g. to load a
// different URL into it.
func (c *WebViewsClient) Update(ctx context.Context, webViewID string, def *WebViewDefinition) error {
	return c.conn.Request(ctx, "webViews.update", updateWebViewParams{WebViewID: webViewID, WebView: def}, nil)
}

// OnUpdated subscribes to web view state changes (including scroll group
// reassignment, which arrives as an updated ScrollGroupRef).
func (c *WebViewsClient) OnUpdated(handler func(update *WebViewUpdate)) {
	c.conn.Subscribe("webViews.updated", func(payload json.RawMessage) {
		var update WebViewUpdate
		if err := json.Unmarshal(payload, &update); err != nil {
			logging.Warn("dropping malformed web view update", "error", err)
			return
		}
		handler(&update)
	})
}

// OnClosed subscribes to web view teardown.
func (c *WebViewsClient) OnClosed(handler func(webViewID string)) {
	c.conn.Subscribe("webViews.closed", func(payload json.RawMessage) {
		var event struct {
			WebViewID string `json:"webViewId"`
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			logging.Warn("dropping malformed web view close event", "error", err)
			return
		}
		handler(event.WebViewID)
	})
}
