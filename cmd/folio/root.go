package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/folio/internal/app"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/logging"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var refresh time.Duration

	client := &lazyClient{configPath: &configPath}
	logger := logging.New(os.Stderr, "warn")

	root := &cobra.Command{
		Use:   "folio",
		Short: "Terminal client for a bookmark service",
		Long: `folio - terminal client for a bookmark service

Run without a subcommand to open the interactive view. The subcommands
talk to the same service for scripting.

Configuration is read from ~/.config/folio/config.toml; FOLIO_API_URL and
FOLIO_API_TOKEN override the file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				Refresh:    refresh,
			})
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/folio/config.toml)")
	root.Flags().DurationVar(&refresh, "refresh", 0, "background refresh interval, e.g. 30s (negative disables)")

	root.AddCommand(
		NewListCmd(client),
		NewAddCmd(client),
		NewArchiveCmd(client),
		NewPocketCmd(client),
		NewImportCmd(client, logger),
	)
	return root
}

// lazyClient builds the API client on first use, after flags are parsed.
type lazyClient struct {
	configPath *string

	once   sync.Once
	client *folio.Client
	err    error
}

func (l *lazyClient) get() (*folio.Client, error) {
	l.once.Do(func() {
		var cfg config.Config
		cfg, l.err = config.Load(*l.configPath)
		if l.err != nil {
			return
		}
		l.client, l.err = app.NewClient(cfg)
	})
	return l.client, l.err
}

func (l *lazyClient) ListBookmarks(ctx context.Context, archived bool) ([]folio.Bookmark, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.ListBookmarks(ctx, archived)
}

func (l *lazyClient) CreateBookmark(ctx context.Context, rawURL string) (folio.Bookmark, error) {
	c, err := l.get()
	if err != nil {
		return folio.Bookmark{}, err
	}
	return c.CreateBookmark(ctx, rawURL)
}

func (l *lazyClient) ArchiveBookmark(ctx context.Context, id string) (folio.Bookmark, error) {
	c, err := l.get()
	if err != nil {
		return folio.Bookmark{}, err
	}
	return c.ArchiveBookmark(ctx, id)
}

func (l *lazyClient) ListImportedLinks(ctx context.Context, status string) ([]folio.ImportedLink, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.ListImportedLinks(ctx, status)
}

var _ folio.API = (*lazyClient)(nil)

// cliLogger is the stderr logger used when a command is built without one.
func cliLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		return logging.Discard()
	}
	return logger
}
