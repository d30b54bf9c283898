package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the viewer settings.
type Config struct {
	Root          string
	Sentinel      string
	Include       []string
	Workers       int
	PollInterval  time.Duration
	NewestFirst   bool
	Live          bool
	PageSize      int
	ContextBefore int
	ContextAfter  int
	Export        Export
}

// Export controls the SQLite mirror written after each full index.
type Export struct {
	Enabled bool
	Dir     string
}

const (
	defaultConfigPath   = "~/.config/smooai-log-viewer/config.toml"
	defaultSentinel     = ".smooai-logs"
	defaultPollInterval = 2 * time.Second
	defaultPageSize     = 200
	minPageSize         = 50
	maxPageSize         = 3000
	defaultContext      = 2
	maxContext          = 50
)

var defaultInclude = []string{"*.ansi", "*.log", "*.json", "*.jsonl"}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Sentinel:      defaultSentinel,
		Include:       append([]string(nil), defaultInclude...),
		PollInterval:  defaultPollInterval,
		NewestFirst:   true,
		Live:          true,
		PageSize:      defaultPageSize,
		ContextBefore: defaultContext,
		ContextAfter:  defaultContext,
		Export:        Export{Dir: os.TempDir()},
	}
}

// Load reads the config at path, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Root          string   `toml:"root"`
		Sentinel      string   `toml:"sentinel"`
		Include       []string `toml:"include"`
		Workers       int      `toml:"workers"`
		PollInterval  string   `toml:"poll_interval"`
		NewestFirst   *bool    `toml:"newest_first"`
		Live          *bool    `toml:"live"`
		PageSize      int      `toml:"page_size"`
		ContextBefore *int     `toml:"context_before"`
		ContextAfter  *int     `toml:"context_after"`
		Export        struct {
			Enabled bool   `toml:"enabled"`
			Dir     string `toml:"dir"`
		} `toml:"export"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if root := strings.TrimSpace(raw.Root); root != "" {
		cfg.Root = mustExpand(root)
	}
	if sentinel := strings.TrimSpace(raw.Sentinel); sentinel != "" {
		cfg.Sentinel = sentinel
	}
	if len(raw.Include) > 0 {
		cfg.Include = cfg.Include[:0]
		for _, pattern := range raw.Include {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				continue
			}
			if !doublestar.ValidatePattern(pattern) {
				return Config{}, fmt.Errorf("invalid config: include pattern %q", pattern)
			}
			cfg.Include = append(cfg.Include, pattern)
		}
		if len(cfg.Include) == 0 {
			cfg.Include = append(cfg.Include, defaultInclude...)
		}
	}
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}
	if interval := strings.TrimSpace(raw.PollInterval); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid config: poll_interval %q", raw.PollInterval)
		}
		cfg.PollInterval = d
	}
	if raw.NewestFirst != nil {
		cfg.NewestFirst = *raw.NewestFirst
	}
	if raw.Live != nil {
		cfg.Live = *raw.Live
	}
	if raw.PageSize > 0 {
		cfg.PageSize = min(max(raw.PageSize, minPageSize), maxPageSize)
	}
	if raw.ContextBefore != nil {
		cfg.ContextBefore = clampContext(*raw.ContextBefore)
	}
	if raw.ContextAfter != nil {
		cfg.ContextAfter = clampContext(*raw.ContextAfter)
	}
	cfg.Export.Enabled = raw.Export.Enabled
	if dir := strings.TrimSpace(raw.Export.Dir); dir != "" {
		cfg.Export.Dir = mustExpand(dir)
	}

	return cfg, nil
}

func clampContext(n int) int {
	return min(max(n, 0), maxContext)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
