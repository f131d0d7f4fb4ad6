// Package viewer drives the extension's web views: it registers one command
// per catalog site, serves the host's web-view provider requests, and reacts
// to host events by deciding whether a view's URL must be recomputed.
package viewer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platformbible/website-viewer/internal/logging"
	"github.com/platformbible/website-viewer/internal/papi"
	"github.com/platformbible/website-viewer/internal/ref"
	"github.com/platformbible/website-viewer/internal/sites"
)

// WebViewType is the one web view type this extension provides.
const WebViewType = "websiteViewer.view"

// defaultScrollGroup is the group a fresh view follows until the host says
// otherwise.
const defaultScrollGroup = 0

// interfaceLanguageSetting is the host setting holding the UI language.
const interfaceLanguageSetting = "platform.interfaceLanguage"

// defaultRequestTimeout bounds host calls made from event callbacks, which
// carry no caller context.
const defaultRequestTimeout = 10 * time.Second

// RenderLog receives every render that actually (re)loaded a view. Failures
// are logged by the caller; rendering never depends on the log.
type RenderLog interface {
	Record(ctx context.Context, siteID string, r ref.VerseRef, url string, scrollGroupID *int) error
}

// Config carries the viewer's collaborators.
type Config struct {
	Catalog *sites.Catalog
	// History is optional.
	History RenderLog
	// RequestTimeout bounds host calls made from event callbacks.
	// Zero means a 10s default.
	RequestTimeout time.Duration
}

// Viewer owns the extension's web views.
type Viewer struct {
	services Services
	catalog  *sites.Catalog
	tracker  *Tracker
	history  RenderLog
	timeout  time.Duration

	baseCtx context.Context

	mu         sync.Mutex
	registered map[string]bool
}

// New builds a viewer. Call Start to register with the host.
func New(services Services, cfg Config) *Viewer {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Viewer{
		services:   services,
		catalog:    cfg.Catalog,
		tracker:    NewTracker(services.Storage),
		history:    cfg.History,
		timeout:    timeout,
		baseCtx:    context.Background(),
		registered: make(map[string]bool),
	}
}

// Tracker exposes the per-view bookkeeping, mainly for inspection.
func (v *Viewer) Tracker() *Tracker {
	return v.tracker
}

// Start registers the provider and the site commands with the host and
// subscribes to the events the viewer reacts to. ctx outlives Start: event
// callbacks derive their request contexts from it.
func (v *Viewer) Start(ctx context.Context) error {
	v.baseCtx = ctx

	if err := v.services.WebViews.RegisterProvider(ctx, WebViewType, v.provideWebView); err != nil {
		return err
	}
	if err := v.registerCommands(ctx); err != nil {
		return err
	}

	v.services.WebViews.OnUpdated(v.handleUpdated)
	v.services.WebViews.OnClosed(v.handleClosed)
	v.services.ScrollGroups.OnScrRefChanged(v.handleScrRefChanged)
	if v.services.Settings != nil {
		// Cached title translations are stale after a language switch.
		v.services.Settings.OnChanged(interfaceLanguageSetting, func(json.RawMessage) {
			v.services.Localization.Invalidate()
		})
	}

	logging.Info("viewer started", "sites", v.catalog.Len())
	return nil
}

// registerCommands registers a command for every catalog site that does not
// have one yet. Safe to call again after a catalog reload.
func (v *Viewer) registerCommands(ctx context.Context) error {
	for _, site := range v.catalog.Sites() {
		key := site.CommandKey()

		v.mu.Lock()
		done := v.registered[key]
		v.mu.Unlock()
		if done {
			continue
		}

		// Resolve the site at invocation time: the catalog may have
		// been reloaded since registration.
		handler := func(ctx context.Context) error {
			return v.openSite(ctx, key)
		}
		if err := v.services.Commands.Register(ctx, key, handler); err != nil {
			return err
		}

		v.mu.Lock()
		v.registered[key] = true
		v.mu.Unlock()
	}
	return nil
}

// openSite opens the web view for a site command, re-focusing the existing
// view when the command already has one.
func (v *Viewer) openSite(ctx context.Context, commandKey string) error {
	site, err := v.catalog.ByCommand(commandKey)
	if err != nil {
		return err
	}

	options := papi.GetWebViewOptions{BringToFront: true, CommandKey: commandKey}
	if viewID, ok := v.tracker.ViewForCommand(commandKey); ok {
		options.ExistingID = viewID
	}

	viewID, err := v.services.WebViews.Open(ctx, WebViewType, options)
	if err != nil {
		return err
	}

	v.tracker.SetCommand(ctx, viewID, commandKey)
	logging.WebViewEvent("opened", viewID, site.ID)
	return nil
}

// provideWebView answers the host's getWebView request for our type. It
// never fails because of missing persisted state: an unknown or unreadable
// command record falls back to the default site, and the record is
// overwritten with the site actually rendered.
func (v *Viewer) provideWebView(ctx context.Context, req *papi.GetWebViewRequest) (*papi.WebViewDefinition, error) {
	viewID := ""
	if req.SavedDefinition != nil {
		viewID = req.SavedDefinition.ID
	}
	if viewID == "" {
		viewID = uuid.NewString()
	}

	site := v.resolveSite(ctx, viewID, req.Options.CommandKey)
	group, r := v.currentPosition(ctx, req.ScrollGroupRef)

	def := v.definition(ctx, viewID, site, r)
	v.tracker.SetCommand(ctx, viewID, site.CommandKey())
	v.tracker.SetPosition(viewID, Position{ScrollGroupID: group, Ref: r})
	v.recordRender(ctx, site, r, def.Content, group)

	logging.RenderDecision(viewID, site.ID, true, "first render")
	return def, nil
}

// resolveSite maps a getWebView request to a catalog site: the command key
// passed through the open options, else the persisted record for the saved
// view, else the default site.
func (v *Viewer) resolveSite(ctx context.Context, viewID, commandKey string) *sites.Site {
	if commandKey == "" {
		commandKey, _ = v.tracker.RestoreCommand(ctx, viewID)
	}
	if commandKey == "" {
		return v.catalog.Default()
	}

	site, err := v.catalog.ByCommand(commandKey)
	if err != nil {
		logging.Warn("persisted command no longer in catalog, using default site",
			"web_view_id", viewID, "command", commandKey)
		return v.catalog.Default()
	}
	return site
}

// currentPosition derives the position a view should render from: the
// request's scroll sync state when the host sent one, else the default
// scroll group's current reference.
func (v *Viewer) currentPosition(ctx context.Context, sgr *papi.ScrollGroupScrRef) (*int, ref.VerseRef) {
	if sgr != nil {
		r := sgr.ScrRef
		if !r.Valid() {
			r = ref.Default
		}
		return sgr.ScrollGroupID, r
	}

	group := defaultScrollGroup
	r, err := v.services.ScrollGroups.GetScrRef(ctx, group)
	if err != nil || !r.Valid() {
		if err != nil {
			logging.Warn("could not read scroll group position, using default reference", "error", err)
		}
		r = ref.Default
	}
	return &group, r
}

// definition builds the web view definition for a site at a reference.
func (v *Viewer) definition(ctx context.Context, viewID string, site *sites.Site, r ref.VerseRef) *papi.WebViewDefinition {
	return &papi.WebViewDefinition{
		ID:          viewID,
		WebViewType: WebViewType,
		Title:       v.localizedTitle(ctx, site),
		ContentType: papi.ContentTypeURL,
		Content:     site.URL(r),
		AllowPopups: true,
	}
}

// localizedTitle resolves the site's localize key, falling back to the
// site's plain name.
func (v *Viewer) localizedTitle(ctx context.Context, site *sites.Site) string {
	if site.NameKey == "" {
		return site.Name
	}
	title := v.services.Localization.LocalizedString(ctx, site.NameKey)
	if title == "" || title == site.NameKey {
		return site.Name
	}
	return title
}

// handleUpdated reacts to a host web view update. Updates for foreign view
// types are ignored; updates without scroll sync state carry nothing to
// compare.
func (v *Viewer) handleUpdated(update *papi.WebViewUpdate) {
	if update.WebView.WebViewType != WebViewType || update.ScrollGroupRef == nil {
		return
	}

	ctx, cancel := context.WithTimeout(v.baseCtx, v.timeout)
	defer cancel()

	viewID := update.WebView.ID
	commandKey, ok := v.tracker.Command(viewID)
	if !ok {
		// The host knows this view but the process does not: restored
		// behind our back. Adopt it.
		commandKey, _ = v.tracker.RestoreCommand(ctx, viewID)
	}
	site := v.siteOrDefault(commandKey)
	if !ok {
		v.tracker.SetCommand(ctx, viewID, site.CommandKey())
	}

	var prev *Position
	if pos, havePos := v.tracker.Position(viewID); havePos {
		prev = &pos
	}

	next := update.ScrollGroupRef.ScrRef
	dec := Decide(site.Watch, prev, update.ScrollGroupRef.ScrollGroupID, next)
	logging.RenderDecision(viewID, site.ID, dec.Reload, dec.Reason)
	if dec.Reload {
		v.render(ctx, viewID, site, update.ScrollGroupRef.ScrollGroupID, next)
	}
}

// handleScrRefChanged reacts to a scroll group position change by running
// the policy for every tracked view in that group.
func (v *Viewer) handleScrRefChanged(change *papi.ScrRefChange) {
	views := v.tracker.ViewsInGroup(change.ScrollGroupID)
	if len(views) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(v.baseCtx, v.timeout)
	defer cancel()

	group := change.ScrollGroupID
	for _, viewID := range views {
		commandKey, ok := v.tracker.Command(viewID)
		if !ok {
			continue
		}
		site := v.siteOrDefault(commandKey)

		prev, _ := v.tracker.Position(viewID)
		dec := Decide(site.Watch, &prev, &group, change.ScrRef)
		logging.RenderDecision(viewID, site.ID, dec.Reload, dec.Reason)
		if dec.Reload {
			v.render(ctx, viewID, site, &group, change.ScrRef)
		}
	}
}

// handleClosed drops all state for a closed view.
func (v *Viewer) handleClosed(webViewID string) {
	ctx, cancel := context.WithTimeout(v.baseCtx, v.timeout)
	defer cancel()

	v.tracker.Forget(ctx, webViewID)
	logging.WebViewEvent("closed", webViewID, "")
}

// render pushes a recomputed definition to the host and, on success,
// updates the cached position so a repeated event is a no-op.
func (v *Viewer) render(ctx context.Context, viewID string, site *sites.Site, group *int, r ref.VerseRef) {
	def := v.definition(ctx, viewID, site, r)
	if err := v.services.WebViews.Update(ctx, viewID, def); err != nil {
		logging.Error("failed to update web view", "web_view_id", viewID, "site", site.ID, "error", err)
		return
	}
	v.tracker.SetPosition(viewID, Position{ScrollGroupID: group, Ref: r})
	v.recordRender(ctx, site, r, def.Content, group)
}

// siteOrDefault resolves a command key, falling back to the default site.
func (v *Viewer) siteOrDefault(commandKey string) *sites.Site {
	if commandKey == "" {
		return v.catalog.Default()
	}
	site, err := v.catalog.ByCommand(commandKey)
	if err != nil {
		return v.catalog.Default()
	}
	return site
}

// recordRender logs a render into the history store, best effort.
func (v *Viewer) recordRender(ctx context.Context, site *sites.Site, r ref.VerseRef, url string, group *int) {
	if v.history == nil {
		return
	}
	if err := v.history.Record(ctx, site.ID, r, url, group); err != nil {
		logging.Warn("failed to record reading history", "site", site.ID, "error", err)
	}
}

// RefreshCatalog re-reads the user catalog and registers commands for any
// sites it added. Existing command registrations stay as they are; removed
// sites resolve to the default site from then on.
func (v *Viewer) RefreshCatalog(ctx context.Context) error {
	changed, err := v.catalog.Reload()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	logging.CatalogEvent("reloaded", v.catalog.Len())
	return v.registerCommands(ctx)
}
