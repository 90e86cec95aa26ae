package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/folio"
	"github.com/five82/folio/internal/logging"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/state"
	"github.com/five82/folio/internal/ui"
)

// Options configure the Folio application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/folio/prefs.toml
	Refresh    time.Duration // zero uses the configured interval; negative disables
}

// Run boots the Folio TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer := openLogger(cfg)
	defer closer.Close()

	client, err := NewClient(cfg)
	if err != nil {
		return fmt.Errorf("init folio client: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	ctrl := state.New(client, state.Options{
		Logger:       logger,
		Filter:       state.ParseFilter(userPrefs.StartView),
		StatusFilter: cfg.PocketStatus,
	})

	interval := cfg.RefreshInterval
	switch {
	case opts.Refresh > 0:
		interval = opts.Refresh
	case opts.Refresh < 0:
		interval = 0
	}

	logger.Info("starting", "api", client.BaseURL(), "view", userPrefs.StartView, "refresh", interval)

	// Fetch the first page before the UI starts so it opens populated.
	warmStart(ctx, ctrl, logger, cfg.RequestTimeout)

	err = ui.Run(ui.Options{
		Context:         ctx,
		Controller:      ctrl,
		Logger:          logger,
		ThemeName:       userPrefs.Theme,
		PrefsPath:       prefsPath,
		StartView:       userPrefs.StartView,
		RefreshInterval: interval,
		LogPath:         cfg.LogPath(),
		Preloaded:       true,
	})
	if err != nil {
		logger.Error("ui exited", "err", err)
		return err
	}
	logger.Info("exiting")
	return nil
}

// NewClient builds the API client described by cfg.
func NewClient(cfg config.Config) (*folio.Client, error) {
	return folio.NewClient(cfg.APIURL,
		folio.WithToken(cfg.APIToken),
		folio.WithTimeout(cfg.RequestTimeout),
	)
}

// openLogger opens the log file, falling back to a discarding logger when
// the file cannot be created. The TUI owns the terminal, so there is nowhere
// else to write.
func openLogger(cfg config.Config) (*log.Logger, io.Closer) {
	logger, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return logging.Discard(), io.NopCloser(nil)
	}
	return logger, closer
}
