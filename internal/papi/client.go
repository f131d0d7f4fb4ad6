package papi

import (
	"context"
)

// Client bundles the typed host service clients sharing one connection.
type Client struct {
	Conn         *Conn
	Commands     *CommandsClient
	WebViews     *WebViewsClient
	ScrollGroups *ScrollGroupsClient
	Settings     *SettingsClient
	Localization *LocalizationClient
	Storage      *StorageClient
}

// Connect dials the host and wraps the connection in service clients.
func Connect(ctx context.Context, uri string) (*Client, error) {
	conn, err := Dial(ctx, uri)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient builds service clients on an existing connection.
func NewClient(conn *Conn) *Client {
	return &Client{
		Conn:         conn,
		Commands:     &CommandsClient{conn: conn},
		WebViews:     &WebViewsClient{conn: conn},
		ScrollGroups: &ScrollGroupsClient{conn: conn},
		Settings:     &SettingsClient{conn: conn},
		Localization: NewLocalizationClient(conn),
		Storage:      &StorageClient{conn: conn},
	}
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.Conn.Close()
}

// Done is closed when the underlying connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.Conn.Done()
}
