// Command website-viewer is a Platform.Bible extension that embeds
// Bible-study websites in host web views and keeps them synchronized with
// the user's reading position.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/platformbible/website-viewer/internal/history"
	"github.com/platformbible/website-viewer/internal/logging"
	"github.com/platformbible/website-viewer/internal/manifest"
	"github.com/platformbible/website-viewer/internal/papi"
	"github.com/platformbible/website-viewer/internal/sites"
	"github.com/platformbible/website-viewer/internal/viewer"
)

const version = "0.1.0"

// CLI defines the command-line interface for website-viewer.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"WEBSITE_VIEWER_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" env:"WEBSITE_VIEWER_LOG_FORMAT"`
	Catalog   string `name:"catalog" help:"User site catalog YAML path" env:"WEBSITE_VIEWER_CATALOG" type:"path"`

	Run     RunCmd       `cmd:"" help:"Connect to the host and serve web views"`
	Sites   SitesGroup   `cmd:"" help:"Site catalog operations"`
	History HistoryGroup `cmd:"" help:"Reading history operations"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// SitesGroup contains site catalog operations.
type SitesGroup struct {
	List             SitesListCmd   `cmd:"" help:"List the configured sites"`
	ImportOpensearch SitesImportCmd `cmd:"" name:"import-opensearch" help:"Derive a site entry from an OpenSearch description"`
}

// HistoryGroup contains reading history operations.
type HistoryGroup struct {
	List   HistoryListCmd   `cmd:"" help:"List logged renders"`
	Export HistoryExportCmd `cmd:"" help:"Export the history log as xz-compressed JSON"`
}

// loadCatalog builds the site catalog, merging the user catalog when one is
// configured.
func loadCatalog() (*sites.Catalog, error) {
	c := sites.NewCatalog()
	if CLI.Catalog != "" {
		if err := c.LoadUser(CLI.Catalog); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RunCmd connects to the host and serves until interrupted.
type RunCmd struct {
	Host      string `help:"Host papi WebSocket URI" default:"ws://localhost:8876/papi" env:"WEBSITE_VIEWER_HOST"`
	HistoryDB string `name:"history-db" help:"History database path (empty disables the log)" env:"WEBSITE_VIEWER_HISTORY_DB" type:"path"`
	Manifest  string `help:"Extension manifest path" default:"manifest.json" env:"WEBSITE_VIEWER_MANIFEST" type:"path"`
}

func (c *RunCmd) Run() error {
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	logging.CatalogEvent("loaded", catalog.Len())

	var m *manifest.Manifest
	if _, statErr := os.Stat(c.Manifest); statErr == nil {
		m, err = manifest.Load(c.Manifest)
		if err != nil {
			return err
		}
		logging.Info("manifest loaded", "name", m.Name, "version", m.Version)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 30*time.Second)
	client, err := papi.Connect(dialCtx, c.Host)
	dialCancel()
	if err != nil {
		return err
	}
	defer client.Close()

	if m != nil {
		checkHostVersion(ctx, client, m)
	}

	cfg := viewer.Config{Catalog: catalog}
	var store *history.Store
	if c.HistoryDB != "" {
		store, err = history.Open(c.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		cfg.History = store
	}

	v := viewer.New(viewer.ClientServices(client), cfg)
	if err := v.Start(ctx); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				if err := v.RefreshCatalog(ctx); err != nil {
					logging.Error("catalog refresh failed", "error", err)
				}
				continue
			}
			logging.Info("shutting down", "signal", sig.String())
			return nil
		case <-client.Done():
			return fmt.Errorf("host connection lost")
		}
	}
}

// checkHostVersion asks the host for its version and warns when the
// manifest says the host is too old. Hosts that do not answer the version
// request are not rejected.
func checkHostVersion(ctx context.Context, client *papi.Client, m *manifest.Manifest) {
	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var hostVersion string
	if err := client.Conn.Request(reqCtx, "host.getVersion", nil, &hostVersion); err != nil {
		logging.Warn("could not determine host version", "error", err)
		return
	}
	if err := m.CheckHostCompatibility(hostVersion); err != nil {
		logging.Warn("host version check failed", "host_version", hostVersion, "error", err)
	}
}

// SitesListCmd lists the configured sites.
type SitesListCmd struct{}

func (c *SitesListCmd) Run() error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	fmt.Printf("%-18s %-8s %-34s %s\n", "ID", "WATCH", "COMMAND", "NAME")
	for _, s := range catalog.Sites() {
		marker := " "
		if s.ID == catalog.Default().ID {
			marker = "*"
		}
		fmt.Printf("%-18s %-8s %-34s %s%s\n", s.ID, s.Watch, s.CommandKey(), s.Name, marker)
	}
	return nil
}

// SitesImportCmd derives a site entry from an OpenSearch description
// document and prints the YAML snippet to add to the user catalog.
type SitesImportCmd struct {
	Source string `arg:"" help:"Path or URL of the opensearch.xml document"`
	ID     string `help:"Site id for the new entry" required:""`
	Watch  string `help:"Watch level (none, book, chapter, verse)" default:"verse"`
}

func (c *SitesImportCmd) Run() error {
	watch, err := sites.ParseRefChangeWatch(c.Watch)
	if err != nil {
		return err
	}

	var r io.ReadCloser
	if strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://") {
		resp, err := http.Get(c.Source)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("fetching %s: %s", c.Source, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(c.Source)
		if err != nil {
			return err
		}
		r = f
	}
	defer r.Close()

	entry, err := sites.ImportOpenSearch(r, c.ID, watch)
	if err != nil {
		return err
	}

	fmt.Println("# Add to your site catalog:")
	fmt.Print(entry.YAMLSnippet())
	return nil
}

// HistoryListCmd lists logged renders, newest first.
type HistoryListCmd struct {
	Db    string `help:"History database path" env:"WEBSITE_VIEWER_HISTORY_DB" required:"" type:"path"`
	Site  string `help:"Only show renders of one site"`
	Limit int    `help:"Maximum entries to show" default:"20"`
}

func (c *HistoryListCmd) Run() error {
	store, err := history.Open(c.Db)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), history.ListOptions{SiteID: c.Site, Limit: c.Limit})
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s  %-16s %-14s %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.SiteID, e.Ref.Display(), e.URL)
	}
	return nil
}

// HistoryExportCmd exports the history log.
type HistoryExportCmd struct {
	Db     string `help:"History database path" env:"WEBSITE_VIEWER_HISTORY_DB" required:"" type:"path"`
	Output string `help:"Output file" short:"o" default:"history.json.xz" type:"path"`
}

func (c *HistoryExportCmd) Run() error {
	store, err := history.Open(c.Db)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ExportFile(context.Background(), c.Output); err != nil {
		return err
	}
	fmt.Printf("exported history to %s\n", c.Output)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("website-viewer version %s (sqlite driver: %s)\n", version, history.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("website-viewer"),
		kong.Description("Platform.Bible website viewer extension"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
