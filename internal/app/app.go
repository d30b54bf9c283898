package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/smooai/log-viewer/internal/config"
	"github.com/smooai/log-viewer/internal/engine"
	"github.com/smooai/log-viewer/internal/indexer"
	"github.com/smooai/log-viewer/internal/prefs"
	"github.com/smooai/log-viewer/internal/ui"
)

// Options configure the viewer.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/smooai-log-viewer/prefs.toml
	// Root overrides the configured root; empty falls back to config, then ".".
	Root    string
	Debug   bool
	LogPath string // debug log file; empty uses the default
}

// settings is everything loaded before an engine can be built.
type settings struct {
	cfg    config.Config
	prefs  prefs.Prefs
	root   string
	logger *slog.Logger
	close  func()
}

func load(opts Options, interactive bool) (*settings, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Load never fails; a broken prefs file falls back to defaults.
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	root, err := resolveRoot(opts.Root, cfg.Root)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(opts.Debug, opts.LogPath, interactive)
	if err != nil {
		return nil, err
	}

	return &settings{cfg: cfg, prefs: userPrefs, root: root, logger: logger, close: closeLog}, nil
}

func resolveRoot(flagRoot, configRoot string) (string, error) {
	root := strings.TrimSpace(flagRoot)
	if root == "" {
		root = configRoot
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}
	return abs, nil
}

func discovery(cfg config.Config) indexer.Discovery {
	return indexer.Discovery{Sentinel: cfg.Sentinel, Include: cfg.Include}
}

// engineOptions merges config with the stored preferences. Preferences win
// for anything the user changed at runtime.
func engineOptions(cfg config.Config, p prefs.Prefs, logger *slog.Logger) engine.Options {
	newestFirst := cfg.NewestFirst
	if p.NewestFirst != nil {
		newestFirst = *p.NewestFirst
	}
	return engine.Options{
		Discovery:      discovery(cfg),
		Workers:        cfg.Workers,
		PollInterval:   cfg.PollInterval,
		NewestFirst:    newestFirst,
		Live:           cfg.Live,
		PageSize:       cfg.PageSize,
		ContextBefore:  cfg.ContextBefore,
		ContextAfter:   cfg.ContextAfter,
		Export:         cfg.Export.Enabled,
		ExportDir:      cfg.Export.Dir,
		VisibleColumns: p.VisibleColumns,
		Regex:          p.RegexMode,
		Logger:         logger,
	}
}

// Run boots the viewer until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := load(opts, true)
	if err != nil {
		return err
	}
	defer s.close()

	eng := engine.New(engineOptions(s.cfg, s.prefs, s.logger))
	defer eng.Close()

	s.logger.Info("viewer starting", "root", s.root)
	return ui.Run(ui.Options{
		Context:   ctx,
		Engine:    eng,
		Root:      s.root,
		Prefs:     s.prefs,
		PrefsPath: opts.PrefsPath,
		Logger:    s.logger,
	})
}
