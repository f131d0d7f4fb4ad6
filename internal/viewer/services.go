package viewer

import (
	"context"
	"encoding/json"

	"github.com/platformbible/website-viewer/internal/papi"
	"github.com/platformbible/website-viewer/internal/ref"
)

// The viewer talks to the host through these narrow interfaces. The papi
// service clients satisfy them; tests substitute in-memory fakes.

// CommandService registers extension commands.
type CommandService interface {
	Register(ctx context.Context, key string, handler papi.CommandHandler) error
}

// WebViewService manages host web views.
type WebViewService interface {
	RegisterProvider(ctx context.Context, webViewType string, provider papi.WebViewProvider) error
	Open(ctx context.Context, webViewType string, options papi.GetWebViewOptions) (string, error)
	Update(ctx context.Context, webViewID string, def *papi.WebViewDefinition) error
	OnUpdated(handler func(update *papi.WebViewUpdate))
	OnClosed(handler func(webViewID string))
}

// ScrollGroupService reads and watches scroll group positions.
type ScrollGroupService interface {
	GetScrRef(ctx context.Context, scrollGroupID int) (ref.VerseRef, error)
	OnScrRefChanged(handler func(change *papi.ScrRefChange))
}

// LocalizationService resolves localize keys.
type LocalizationService interface {
	LocalizedString(ctx context.Context, key string) string
	Invalidate()
}

// SettingsService watches host settings.
type SettingsService interface {
	OnChanged(key string, handler func(value json.RawMessage))
}

// StorageService persists extension records in the host store.
type StorageService interface {
	Read(ctx context.Context, key string, out interface{}) error
	Write(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// Services bundles the host services the viewer depends on.
type Services struct {
	Commands     CommandService
	WebViews     WebViewService
	ScrollGroups ScrollGroupService
	Localization LocalizationService
	Settings     SettingsService
	Storage      StorageService
}

// ClientServices adapts a connected papi client into the service bundle.
func ClientServices(c *papi.Client) Services {
	return Services{
		Commands:     c.Commands,
		WebViews:     c.WebViews,
		ScrollGroups: c.ScrollGroups,
		Localization: c.Localization,
		Settings:     c.Settings,
		Storage:      c.Storage,
	}
}
