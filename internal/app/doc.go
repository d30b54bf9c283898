// Package app is the composition root for the viewer.
//
// It loads config and preferences, picks the root directory and logger,
// builds an engine.Engine and hands it to one of three front ends:
//
//   - Run: the interactive viewer (ui.Run)
//   - Query: a one-shot, optionally following, filtered dump to a writer
//   - Export: a full index written to a SQLite file that is kept on disk
//
// The headless commands have no Bubble Tea loop, so pump takes over the
// job of draining the engine on a ticker.
//
// # Configuration
//
// Settings come from ~/.config/smooai-log-viewer/config.toml; runtime
// preferences (theme, visible columns, regex mode, sort order) from
// prefs.toml next to it. Preferences override config where both apply.
package app
