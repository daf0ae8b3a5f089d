package app

import (
	"context"
	"fmt"
	"time"

	"github.com/lexam-dev/lexview/internal/config"
	"github.com/lexam-dev/lexview/internal/lexam"
	"github.com/lexam-dev/lexview/internal/prefs"
	"github.com/lexam-dev/lexview/internal/state"
	"github.com/lexam-dev/lexview/internal/ui"
)

// Options configure the lexview application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/lexview/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the lexview TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := lexam.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if cfg.PollSeconds > 0 {
		interval = time.Duration(cfg.PollSeconds) * time.Second
	}
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller
	StartPoller(ctx, store, client, interval)

	// Do initial refresh to populate store before UI starts
	refresh(ctx, store, client)

	uiOpts := ui.Options{
		Context:    ctx,
		Client:     client,
		Store:      store,
		PollTick:   interval,
		ThemeName:  userPrefs.Theme,
		JudgeModel: userPrefs.JudgeModel,
		PrefsPath:  opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
