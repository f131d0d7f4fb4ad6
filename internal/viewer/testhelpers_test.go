package viewer

import (
	"context"
	"encoding/json"
	"sync"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
	"github.com/platformbible/website-viewer/internal/papi"
	"github.com/platformbible/website-viewer/internal/ref"
)

// In-memory stand-ins for the host services.

type fakeStorage struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string]json.RawMessage)}
}

func (s *fakeStorage) Read(ctx context.Context, key string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	if !ok {
		return apperrors.NewNotFound("user data", key)
	}
	return json.Unmarshal(data, out)
}

func (s *fakeStorage) Write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStorage) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return "", false
	}
	return v, true
}

type fakeCommands struct {
	mu       sync.Mutex
	handlers map[string]papi.CommandHandler
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{handlers: make(map[string]papi.CommandHandler)}
}

func (c *fakeCommands) Register(ctx context.Context, key string, handler papi.CommandHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[key] = handler
	return nil
}

func (c *fakeCommands) invoke(ctx context.Context, key string) error {
	c.mu.Lock()
	handler, ok := c.handlers[key]
	c.mu.Unlock()
	if !ok {
		return apperrors.NewNotFound("command", key)
	}
	return handler(ctx)
}

// fakeWebViews plays the host's side of the web view protocol: Open routes
// through the registered provider the way the host would, and the recorded
// Update calls are what the tests assert on.
type fakeWebViews struct {
	mu       sync.Mutex
	provider papi.WebViewProvider
	opens    []papi.GetWebViewOptions
	updates  []*papi.WebViewDefinition
	updated  []func(*papi.WebViewUpdate)
	closed   []func(string)
	saved    map[string]*papi.WebViewDefinition
}

func newFakeWebViews() *fakeWebViews {
	return &fakeWebViews{saved: make(map[string]*papi.WebViewDefinition)}
}

func (w *fakeWebViews) RegisterProvider(ctx context.Context, webViewType string, provider papi.WebViewProvider) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.provider = provider
	return nil
}

func (w *fakeWebViews) Open(ctx context.Context, webViewType string, options papi.GetWebViewOptions) (string, error) {
	w.mu.Lock()
	w.opens = append(w.opens, options)
	provider := w.provider
	var saved *papi.WebViewDefinition
	if options.ExistingID != "" {
		saved = w.saved[options.ExistingID]
	}
	w.mu.Unlock()

	def, err := provider(ctx, &papi.GetWebViewRequest{
		SavedDefinition: saved,
		Options:         options,
	})
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	w.saved[def.ID] = def
	w.mu.Unlock()
	return def.ID, nil
}

func (w *fakeWebViews) Update(ctx context.Context, webViewID string, def *papi.WebViewDefinition) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updates = append(w.updates, def)
	w.saved[webViewID] = def
	return nil
}

func (w *fakeWebViews) OnUpdated(handler func(*papi.WebViewUpdate)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updated = append(w.updated, handler)
}

func (w *fakeWebViews) OnClosed(handler func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = append(w.closed, handler)
}

func (w *fakeWebViews) emitUpdated(update *papi.WebViewUpdate) {
	w.mu.Lock()
	handlers := append([]func(*papi.WebViewUpdate){}, w.updated...)
	w.mu.Unlock()
	for _, h := range handlers {
		h(update)
	}
}

func (w *fakeWebViews) emitClosed(webViewID string) {
	w.mu.Lock()
	handlers := append([]func(string){}, w.closed...)
	w.mu.Unlock()
	for _, h := range handlers {
		h(webViewID)
	}
}

func (w *fakeWebViews) updateCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.updates)
}

func (w *fakeWebViews) lastUpdate() *papi.WebViewDefinition {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.updates) == 0 {
		return nil
	}
	return w.updates[len(w.updates)-1]
}

func (w *fakeWebViews) lastOpen() papi.GetWebViewOptions {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opens[len(w.opens)-1]
}

type fakeScrollGroups struct {
	mu       sync.Mutex
	refs     map[int]ref.VerseRef
	handlers []func(*papi.ScrRefChange)
}

func newFakeScrollGroups() *fakeScrollGroups {
	return &fakeScrollGroups{refs: make(map[int]ref.VerseRef)}
}

func (g *fakeScrollGroups) GetScrRef(ctx context.Context, scrollGroupID int) (ref.VerseRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.refs[scrollGroupID]
	if !ok {
		return ref.VerseRef{}, apperrors.NewHost("scrollGroups.getScrRef", "unknown scroll group")
	}
	return r, nil
}

func (g *fakeScrollGroups) OnScrRefChanged(handler func(*papi.ScrRefChange)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers = append(g.handlers, handler)
}

func (g *fakeScrollGroups) emit(change *papi.ScrRefChange) {
	g.mu.Lock()
	g.refs[change.ScrollGroupID] = change.ScrRef
	handlers := append([]func(*papi.ScrRefChange){}, g.handlers...)
	g.mu.Unlock()
	for _, h := range handlers {
		h(change)
	}
}

type fakeLocalization struct {
	strings     map[string]string
	invalidated int
}

func (l *fakeLocalization) LocalizedString(ctx context.Context, key string) string {
	if s, ok := l.strings[key]; ok {
		return s
	}
	return key
}

func (l *fakeLocalization) Invalidate() {
	l.invalidated++
}

type fakeSettings struct {
	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{handlers: make(map[string][]func(json.RawMessage))}
}

func (s *fakeSettings) OnChanged(key string, handler func(json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[key] = append(s.handlers[key], handler)
}

func (s *fakeSettings) emit(key string, value json.RawMessage) {
	s.mu.Lock()
	handlers := append([]func(json.RawMessage){}, s.handlers[key]...)
	s.mu.Unlock()
	for _, h := range handlers {
		h(value)
	}
}

type fakeHistory struct {
	mu      sync.Mutex
	records []string
}

func (h *fakeHistory) Record(ctx context.Context, siteID string, r ref.VerseRef, url string, scrollGroupID *int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, siteID+" "+r.String()+" "+url)
	return nil
}

func (h *fakeHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

type fixture struct {
	storage      *fakeStorage
	commands     *fakeCommands
	webViews     *fakeWebViews
	scrollGroups *fakeScrollGroups
	localization *fakeLocalization
	settings     *fakeSettings
	history      *fakeHistory
	viewer       *Viewer
}

func (f *fixture) services() Services {
	return Services{
		Commands:     f.commands,
		WebViews:     f.webViews,
		ScrollGroups: f.scrollGroups,
		Localization: f.localization,
		Settings:     f.settings,
		Storage:      f.storage,
	}
}

func intPtr(n int) *int { return &n }
