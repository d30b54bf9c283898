package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSentinel names the directories that hold log files.
const DefaultSentinel = ".smooai-logs"

// DefaultInclude matches the accepted log file extensions.
var DefaultInclude = []string{"*.ansi", "*.log", "*.json", "*.jsonl"}

// ErrRootNotDir is returned when the index root is not a directory.
var ErrRootNotDir = errors.New("root is not a directory")

// Discovery locates log files under a root: every directory named
// Sentinel at any depth, then the regular files directly inside it whose
// base name matches one of Include.
type Discovery struct {
	Sentinel string
	Include  []string
}

func (d Discovery) withDefaults() Discovery {
	if d.Sentinel == "" {
		d.Sentinel = DefaultSentinel
	}
	if len(d.Include) == 0 {
		d.Include = DefaultInclude
	}
	return d
}

// Validate checks the include patterns.
func (d Discovery) Validate() error {
	for _, p := range d.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern %q", p)
		}
	}
	return nil
}

// Files returns every eligible file under root in lexical order. Only a
// failure on root itself is an error; unreadable subtrees are skipped.
func (d Discovery) Files(root string) ([]string, error) {
	dirs, err := d.Dirs(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, dir := range dirs {
		found, err := d.ListLogFiles(dir)
		if err != nil {
			continue
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	return files, nil
}

// Dirs returns the sentinel directories under root, root included.
func (d Discovery) Dirs(root string) ([]string, error) {
	d = d.withDefaults()
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() && entry.Name() == d.Sentinel {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk root: %w", err)
	}
	return dirs, nil
}

// ListLogFiles returns the matching regular files directly inside dir.
func (d Discovery) ListLogFiles(dir string) ([]string, error) {
	d = d.withDefaults()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !d.Match(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Match reports whether a base file name matches an include pattern.
func (d Discovery) Match(name string) bool {
	for _, p := range d.withDefaults().Include {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
