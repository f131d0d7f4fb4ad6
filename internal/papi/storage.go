package papi

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
)

// StorageClient persists extension data in the host's per-extension store.
// Values are JSON documents keyed by string.
type StorageClient struct {
	conn *Conn
}

type storageReadParams struct {
	Key string `json:"key"`
}

type storageWriteParams struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

// Read decodes the stored value for key into out. A key the host has no
// data for yields ErrNotFound.
func (c *StorageClient) Read(ctx context.Context, key string, out interface{}) error {
	var data json.RawMessage
	if err := c.conn.Request(ctx, "storage.readUserData", storageReadParams{Key: key}, &data); err != nil {
		// Hosts report a missing key as a request error, not an empty
		// result.
		var hostErr *apperrors.HostError
		if apperrors.As(err, &hostErr) && strings.Contains(strings.ToLower(hostErr.Message), "not found") {
			return apperrors.NewNotFound("user data", key)
		}
		return err
	}
	if len(data) == 0 || string(data) == "null" {
		return apperrors.NewNotFound("user data", key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrapf(err, "failed to decode user data %s", key)
	}
	return nil
}

// Write stores value under key, replacing any previous value.
func (c *StorageClient) Write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrapf(err, "failed to encode user data %s", key)
	}
	return c.conn.Request(ctx, "storage.writeUserData", storageWriteParams{Key: key, Data: data}, nil)
}

// Delete removes the value under key. Deleting an absent key is not an
// error.
func (c *StorageClient) Delete(ctx context.Context, key string) error {
	err := c.conn.Request(ctx, "storage.deleteUserData", storageReadParams{Key: key}, nil)
	var hostErr *apperrors.HostError
	if apperrors.As(err, &hostErr) && strings.Contains(strings.ToLower(hostErr.Message), "not found") {
		return nil
	}
	return err
}
