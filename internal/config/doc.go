// Package config loads the viewer's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/smooai-log-viewer/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	root = "~/src/monorepo"
//	sentinel = ".smooai-logs"
//	include = ["*.ansi", "*.log", "*.json", "*.jsonl"]
//	workers = 0            # 0 uses GOMAXPROCS
//	poll_interval = "2s"
//	newest_first = true
//	live = true
//	page_size = 200        # clamped to 50..3000
//	context_before = 2     # clamped to 0..50
//	context_after = 2
//
//	[export]
//	enabled = false
//	dir = "/tmp"
//
// Every field is optional. Tilde expansion is applied to root and
// export.dir.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors ("parse config")
//   - Malformed include patterns or poll intervals ("invalid config")
//
// Out-of-range numbers are clamped rather than rejected.
package config
