package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/framegrid/internal/authority"
	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/config"
	"github.com/five82/framegrid/internal/prefs"
	"github.com/five82/framegrid/internal/state"
	"github.com/five82/framegrid/internal/ui"
)

// Options configure the framegrid application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/framegrid/prefs.toml
	PollEvery  time.Duration // zero uses default
	Debug      bool
}

// Run boots the grid editor until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, closeLog, err := openLogger(cfg.LogPath(), opts.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	client, err := authority.NewClient(cfg.APIBind, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init authority client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}
	// Subscribe before the first fetch so the UI sees the initial grid as a
	// change like any other.
	sub := store.Subscribe()
	defer sub.Close()

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	refresh(ctx, store, client, logger)
	StartPoller(ctx, store, client, interval, logger)

	protocol := commit.NewProtocol(ctx, client, logger, cfg.RequestTimeout)
	defer protocol.Wait()

	prefsUpdates := make(chan prefs.Prefs, 1)
	if err := prefs.Watch(ctx, opts.PrefsPath, func(p prefs.Prefs) {
		select {
		case prefsUpdates <- p:
		default:
		}
	}); err != nil {
		logger.Warn("prefs watch disabled", "error", err)
	}

	logger.Info("framegrid started",
		"api_bind", cfg.APIBind,
		"poll", interval.String(),
		"theme", userPrefs.Theme,
		"orientation", userPrefs.Orientation)

	err = ui.Run(ui.Options{
		Context:      ctx,
		Store:        store,
		Subscription: sub,
		Submitter:    protocol,
		Failures:     protocol.Failures,
		Prefs:        userPrefs,
		PrefsPath:    opts.PrefsPath,
		PrefsUpdates: prefsUpdates,
		LogPath:      cfg.LogPath(),
		Logger:       logger,
	})
	cancel()
	return err
}

func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = file.Close() }, nil
}
