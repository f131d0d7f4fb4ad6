package history

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
)

// Export writes the whole log as xz-compressed JSON, newest first.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.List(ctx, ListOptions{})
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return apperrors.Wrap(err, "failed to create xz writer")
	}

	enc := json.NewEncoder(xzw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return apperrors.Wrap(err, "failed to encode history export")
	}
	return xzw.Close()
}

// ExportFile exports the log to a file.
func (s *Store) ExportFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewIO("create", path, err)
	}
	if err := s.Export(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadExport decodes an export stream back into entries.
func ReadExport(r io.Reader) ([]Entry, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open xz stream")
	}
	var entries []Entry
	if err := json.NewDecoder(xzr).Decode(&entries); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode history export")
	}
	return entries, nil
}
