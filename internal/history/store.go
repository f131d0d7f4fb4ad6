// Package history keeps a local reading-history log: one row per render
// that actually loaded a URL into a web view. The log is a convenience for
// the user (queried from the CLI, exportable) and is never consulted by the
// render path.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
	"github.com/platformbible/website-viewer/internal/ref"
)

const schema = `
CREATE TABLE IF NOT EXISTS renders (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	site_id       TEXT NOT NULL,
	book          TEXT NOT NULL,
	chapter       INTEGER NOT NULL,
	verse         INTEGER NOT NULL,
	url           TEXT NOT NULL,
	scroll_group  INTEGER,
	content_hash  TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_renders_site ON renders(site_id);
CREATE INDEX IF NOT EXISTS idx_renders_hash ON renders(content_hash);
`

// Entry is one logged render.
type Entry struct {
	ID            int64        `json:"id"`
	SiteID        string       `json:"siteId"`
	Ref           ref.VerseRef `json:"ref"`
	URL           string       `json:"url"`
	ScrollGroupID *int         `json:"scrollGroupId,omitempty"`
	ContentHash   string       `json:"contentHash"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Store is the SQLite-backed history log.
type Store struct {
	db *sql.DB
}

// DriverType identifies the SQLite implementation in use ("purego" or
// "cgo").
func DriverType() string {
	return driverType
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, apperrors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.Wrapf(err, "failed to initialize history schema at %s", path)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// contentHash fingerprints what was rendered, independent of when.
func contentHash(siteID, url string) string {
	h := blake3.New()
	h.Write([]byte(siteID))
	h.Write([]byte{0})
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// Record logs a render. A render identical to the most recent row (same
// site and URL) is not logged again: reopening the same page back to back
// says nothing new about the reading history.
func (s *Store) Record(ctx context.Context, siteID string, r ref.VerseRef, url string, scrollGroupID *int) error {
	hash := contentHash(siteID, url)

	var lastHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM renders ORDER BY id DESC LIMIT 1`).Scan(&lastHash)
	if err != nil && err != sql.ErrNoRows {
		return apperrors.Wrap(err, "failed to read last history entry")
	}
	if lastHash == hash {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO renders (site_id, book, chapter, verse, url, scroll_group, content_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		siteID, r.Book, r.Chapter, r.Verse, url, scrollGroupID, hash,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return apperrors.Wrap(err, "failed to record history entry")
	}
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// SiteID limits the result to one site. Empty means all sites.
	SiteID string
	// Limit caps the number of entries. Zero means no cap.
	Limit int
}

// List returns entries, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `SELECT id, site_id, book, chapter, verse, url, scroll_group, content_hash, created_at
		FROM renders`
	var args []interface{}
	if opts.SiteID != "" {
		query += ` WHERE site_id = ?`
		args = append(args, opts.SiteID)
	}
	query += ` ORDER BY id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query history")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var group sql.NullInt64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SiteID, &e.Ref.Book, &e.Ref.Chapter, &e.Ref.Verse,
			&e.URL, &group, &e.ContentHash, &createdAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan history entry")
		}
		if group.Valid {
			g := int(group.Int64)
			e.ScrollGroupID = &g
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of logged renders.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM renders`).Scan(&n); err != nil {
		return 0, apperrors.Wrap(err, "failed to count history entries")
	}
	return n, nil
}
