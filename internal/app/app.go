package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/config"
	"github.com/raovat-dev/raovat/internal/logging"
	"github.com/raovat-dev/raovat/internal/prefs"
	"github.com/raovat-dev/raovat/internal/ui"
)

// Options configure the raovat application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/raovat/prefs.toml
	Verbose    bool   // debug-level file logging
}

// Run boots the raovat TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger, logCloser, err := logging.FileLogger(cfg.LogFile, level)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("loading preferences failed", "error", err)
	}

	client, err := bangtin.NewClient(cfg.ServiceURL, cfg.AnonKey)
	if err != nil {
		return fmt.Errorf("init service client: %w", err)
	}

	// Sign in before the UI starts so the dashboard opens straight into
	// the grid when credentials are configured.
	session := bootstrapSession(ctx, client, cfg, logger)

	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 {
		pageSize = userPrefs.PageSize
	}

	logger.Info("starting dashboard",
		"service_url", cfg.ServiceURL,
		"signed_in", session != nil,
		"page_size", pageSize,
	)

	uiOpts := ui.Options{
		Context:      ctx,
		Fetcher:      client,
		Auth:         client,
		Config:       &cfg,
		Logger:       logger,
		Session:      session,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		PageSize:     pageSize,
		RefreshEvery: cfg.RefreshEvery,
		LogFile:      cfg.LogFile,
	}
	return ui.Run(uiOpts)
}
