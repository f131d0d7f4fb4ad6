package papi

import (
	"context"
	"encoding/json"

	"github.com/platformbible/website-viewer/internal/logging"
)

// SettingsClient reads extension settings the host stores.
type SettingsClient struct {
	conn *Conn
}

type settingKeyParams struct {
	Key string `json:"key"`
}

// Get decodes the setting value for key into out.
func (c *SettingsClient) Get(ctx context.Context, key string, out interface{}) error {
	return c.conn.Request(ctx, "settings.get", settingKeyParams{Key: key}, out)
}

// SettingChange is the "settings.changed" event payload.
type SettingChange struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// OnChanged subscribes to setting updates for one key.
func (c *SettingsClient) OnChanged(key string, handler func(value json.RawMessage)) {
	c.conn.Subscribe("settings.changed", func(payload json.RawMessage) {
		var change SettingChange
		if err := json.Unmarshal(payload, &change); err != nil {
			logging.Warn("dropping malformed setting change", "error", err)
			return
		}
		if change.Key == key {
			handler(change.Value)
		}
	})
}
