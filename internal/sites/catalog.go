package sites

import (
	"fmt"
	"os"
	"sync"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
	"github.com/platformbible/website-viewer/internal/logging"
)

// userCatalogFile is the YAML schema of a user site catalog.
type userCatalogFile struct {
	DefaultSite string  `yaml:"defaultSite,omitempty"`
	Sites       []Entry `yaml:"sites"`
}

// Entry is one user-defined (or overridden) site in the YAML catalog schema.
type Entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	NameKey     string `yaml:"nameKey,omitempty"`
	Watch       string `yaml:"watch,omitempty"`
	URLTemplate string `yaml:"urlTemplate"`
}

// parsedUserCatalog carries compiled user catalog content.
type parsedUserCatalog struct {
	defaultSite string
	sites       []*Site
}

// Catalog maps command keys to site configurations. It starts from the
// built-in sites and merges an optional user catalog file over them.
type Catalog struct {
	mu          sync.RWMutex
	order       []string // site IDs in menu order
	byID        map[string]*Site
	defaultID   string
	userPath    string
	fingerprint [32]byte // blake3 of the user catalog file, zero when absent
}

// NewCatalog creates a catalog containing only the built-in sites.
func NewCatalog() *Catalog {
	c := &Catalog{
		byID:      make(map[string]*Site),
		defaultID: DefaultSiteID,
	}
	for _, s := range builtinSites() {
		c.order = append(c.order, s.ID)
		c.byID[s.ID] = s
	}
	return c
}

// LoadUser merges the user catalog file at path over the built-ins.
// A missing file is not an error; the built-in catalog stands.
func (c *Catalog) LoadUser(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperrors.NewIO("read", path, err)
	}

	parsed, err := parseUserCatalog(data, path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.userPath = path
	c.fingerprint = blake3.Sum256(data)
	c.mergeLocked(parsed)

	logging.CatalogEvent("loaded", len(c.order), "path", path)
	return nil
}

// Reload re-reads the user catalog if its content changed since the last
// load. Returns true when the catalog was rebuilt.
func (c *Catalog) Reload() (bool, error) {
	c.mu.RLock()
	path := c.userPath
	oldPrint := c.fingerprint
	c.mu.RUnlock()

	if path == "" {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.NewIO("read", path, err)
	}

	if blake3.Sum256(data) == oldPrint {
		return false, nil
	}

	parsed, err := parseUserCatalog(data, path)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Rebuild from built-ins so removed user entries disappear.
	c.order = nil
	c.byID = make(map[string]*Site)
	c.defaultID = DefaultSiteID
	for _, s := range builtinSites() {
		c.order = append(c.order, s.ID)
		c.byID[s.ID] = s
	}
	c.fingerprint = blake3.Sum256(data)
	c.mergeLocked(parsed)

	logging.CatalogEvent("reloaded", len(c.order), "path", path)
	return true, nil
}

// mergeLocked applies a compiled user catalog. Caller holds c.mu.
func (c *Catalog) mergeLocked(parsed *parsedUserCatalog) {
	for _, s := range parsed.sites {
		if _, exists := c.byID[s.ID]; !exists {
			c.order = append(c.order, s.ID)
		}
		c.byID[s.ID] = s
	}
	if parsed.defaultSite != "" {
		if _, ok := c.byID[parsed.defaultSite]; ok {
			c.defaultID = parsed.defaultSite
		} else {
			logging.Warn("default site not in catalog, keeping built-in default",
				"default_site", parsed.defaultSite)
		}
	}
}

// parseUserCatalog validates and compiles a user catalog file.
func parseUserCatalog(data []byte, path string) (*parsedUserCatalog, error) {
	var file userCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewParse("YAML", path, err.Error())
	}

	parsed := &parsedUserCatalog{defaultSite: file.DefaultSite}
	seen := make(map[string]bool, len(file.Sites))

	for i, entry := range file.Sites {
		if entry.ID == "" {
			return nil, apperrors.NewValidation("id", fmt.Sprintf("site %d has no id", i))
		}
		if seen[entry.ID] {
			return nil, apperrors.NewValidation("id", fmt.Sprintf("duplicate site id %q", entry.ID))
		}
		seen[entry.ID] = true
		if entry.Name == "" {
			return nil, apperrors.NewValidation("name", fmt.Sprintf("site %q has no name", entry.ID))
		}

		watch, err := ParseRefChangeWatch(entry.Watch)
		if err != nil {
			return nil, err
		}
		if watch != DoNotWatch && !HasPlaceholder(entry.URLTemplate) {
			return nil, apperrors.NewValidation("urlTemplate",
				fmt.Sprintf("site %q watches %s changes but has no position placeholder", entry.ID, watch))
		}

		build, err := TemplateBuilder(entry.URLTemplate)
		if err != nil {
			return nil, err
		}

		parsed.sites = append(parsed.sites, &Site{
			ID:       entry.ID,
			NameKey:  entry.NameKey,
			Name:     entry.Name,
			Watch:    watch,
			BuildURL: build,
		})
	}

	return parsed, nil
}

// Sites returns all sites in menu order.
func (c *Catalog) Sites() []*Site {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*Site, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.byID[id])
	}
	return result
}

// ByID returns the site with the given ID.
func (c *Catalog) ByID(id string) (*Site, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("site", id)
	}
	return s, nil
}

// ByCommand returns the site registered under a command key.
func (c *Catalog) ByCommand(commandKey string) (*Site, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.byID {
		if s.CommandKey() == commandKey {
			return s, nil
		}
	}
	return nil, apperrors.NewNotFound("site command", commandKey)
}

// Default returns the fallback site used when a persisted record is missing
// or names an unknown command.
func (c *Catalog) Default() *Site {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s, ok := c.byID[c.defaultID]; ok {
		return s
	}
	// The built-in default always exists.
	return c.byID[DefaultSiteID]
}

// Len returns the number of sites in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
