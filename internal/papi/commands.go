package papi

import (
	"context"
	"encoding/json"
)

// CommandHandler runs when the host invokes a registered command.
type CommandHandler func(ctx context.Context) error

// CommandsClient registers extension commands with the host. A registered
// command shows up in host menus; invoking it sends a request back on the
// "command.<key>" subject.
type CommandsClient struct {
	conn *Conn
}

type registerCommandParams struct {
	CommandKey string `json:"commandKey"`
}

// Register announces a command key to the host and installs its handler.
// Registering the same key again replaces the handler.
func (c *CommandsClient) Register(ctx context.Context, key string, handler CommandHandler) error {
	c.conn.Handle("command."+key, func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return nil, handler(ctx)
	})
	return c.conn.Request(ctx, "commands.register", registerCommandParams{CommandKey: key}, nil)
}
