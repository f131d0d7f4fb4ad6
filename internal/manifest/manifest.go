// Package manifest loads and validates the extension manifest: the JSON
// document describing the extension to the host, plus the semantic-version
// rule deciding whether a host can run it.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
)

// Manifest describes the extension to the host.
type Manifest struct {
	// Name is the extension id, e.g. "websiteViewer".
	Name        string `json:"name"`
	Version     string `json:"version"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
	// Main is the extension entrypoint the host launches.
	Main string `json:"main"`
	// MinHostVersion is the lowest host version the extension supports.
	MinHostVersion string `json:"minHostVersion"`
	// WebViewTypes lists the web view types the extension provides.
	WebViewTypes []string `json:"webViewTypes,omitempty"`
	// Commands lists the command keys the extension registers.
	Commands []string `json:"commands,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse validates manifest JSON. path is only used in error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewParse("manifest", path, err.Error())
	}

	if m.Name == "" {
		return nil, apperrors.NewValidation("name", "manifest name is required")
	}
	if m.Main == "" {
		return nil, apperrors.NewValidation("main", "manifest entrypoint is required")
	}
	if _, err := ParseVersion(m.Version); err != nil {
		return nil, apperrors.NewValidation("version", err.Error())
	}
	if m.MinHostVersion != "" {
		if _, err := ParseVersion(m.MinHostVersion); err != nil {
			return nil, apperrors.NewValidation("minHostVersion", err.Error())
		}
	}

	return &m, nil
}

// CheckHostCompatibility reports whether a host at hostVersion can run the
// extension. An empty MinHostVersion accepts any host.
func (m *Manifest) CheckHostCompatibility(hostVersion string) error {
	if m.MinHostVersion == "" {
		return nil
	}

	host, err := ParseVersion(hostVersion)
	if err != nil {
		return apperrors.NewValidation("hostVersion", err.Error())
	}
	required, err := ParseVersion(m.MinHostVersion)
	if err != nil {
		return apperrors.NewValidation("minHostVersion", err.Error())
	}

	if !host.IsCompatibleWith(required) {
		return fmt.Errorf("host version %s is not compatible with required %s: %w",
			host, required, apperrors.ErrInvalidInput)
	}
	return nil
}
