package viewer

import (
	"context"
	"sync"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
	"github.com/platformbible/website-viewer/internal/logging"
)

// recordKeyPrefix namespaces the per-view records in the host's user-data
// store. The record value is the command key that opened the view.
const recordKeyPrefix = "webViewCommand."

// Tracker keeps the per-view bookkeeping: which command opened each web view
// and the last position each view rendered. The command records are mirrored
// into the host's user-data store so they survive a restart; positions are
// process-lifetime only.
type Tracker struct {
	store StorageService

	mu             sync.Mutex
	commandByView  map[string]string
	positionByView map[string]Position
}

// NewTracker builds a tracker persisting command records through store.
func NewTracker(store StorageService) *Tracker {
	return &Tracker{
		store:          store,
		commandByView:  make(map[string]string),
		positionByView: make(map[string]Position),
	}
}

// Command returns the command key tracked for a view.
func (t *Tracker) Command(webViewID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key, ok := t.commandByView[webViewID]
	return key, ok
}

// ViewForCommand returns the view currently open for a command key. At most
// one view exists per command.
func (t *Tracker) ViewForCommand(commandKey string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for viewID, key := range t.commandByView {
		if key == commandKey {
			return viewID, true
		}
	}
	return "", false
}

// SetCommand tracks a view's command key and persists the record. A failed
// write is logged, not returned: the in-memory state is already correct and
// the record only matters across restarts.
func (t *Tracker) SetCommand(ctx context.Context, webViewID, commandKey string) {
	t.mu.Lock()
	t.commandByView[webViewID] = commandKey
	t.mu.Unlock()

	if err := t.store.Write(ctx, recordKeyPrefix+webViewID, commandKey); err != nil {
		logging.StorageError("write", recordKeyPrefix+webViewID, err)
	}
}

// RestoreCommand looks up the persisted command record for a view the
// process has not seen yet (a host restore after restart). The restored key
// is not re-tracked here; the caller decides what to track after validating
// it against the catalog.
func (t *Tracker) RestoreCommand(ctx context.Context, webViewID string) (string, bool) {
	var commandKey string
	err := t.store.Read(ctx, recordKeyPrefix+webViewID, &commandKey)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			logging.StorageError("read", recordKeyPrefix+webViewID, err)
		}
		return "", false
	}
	return commandKey, commandKey != ""
}

// Position returns the last rendered position of a view.
func (t *Tracker) Position(webViewID string) (Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pos, ok := t.positionByView[webViewID]
	return pos, ok
}

// SetPosition records the position a view just rendered.
func (t *Tracker) SetPosition(webViewID string, pos Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.positionByView[webViewID] = pos
}

// ViewsInGroup returns the tracked views following a scroll group.
func (t *Tracker) ViewsInGroup(scrollGroupID int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var views []string
	for viewID, pos := range t.positionByView {
		if pos.ScrollGroupID != nil && *pos.ScrollGroupID == scrollGroupID {
			views = append(views, viewID)
		}
	}
	return views
}

// Forget drops all state for a closed view and deletes its persisted
// record.
func (t *Tracker) Forget(ctx context.Context, webViewID string) {
	t.mu.Lock()
	delete(t.commandByView, webViewID)
	delete(t.positionByView, webViewID)
	t.mu.Unlock()

	if err := t.store.Delete(ctx, recordKeyPrefix+webViewID); err != nil {
		logging.StorageError("delete", recordKeyPrefix+webViewID, err)
	}
}

// Len returns how many views are tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.commandByView)
}
