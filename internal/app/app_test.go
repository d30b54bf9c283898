package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smooai/log-viewer/internal/config"
	"github.com/smooai/log-viewer/internal/engine"
	"github.com/smooai/log-viewer/internal/filter"
	"github.com/smooai/log-viewer/internal/indexer"
	"github.com/smooai/log-viewer/internal/prefs"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testOptions points config and prefs at files that do not exist, so
// defaults apply.
func testOptions(t *testing.T, root string) Options {
	dir := t.TempDir()
	return Options{
		ConfigPath: filepath.Join(dir, "config.toml"),
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Root:       root,
	}
}

func sampleRoot(t *testing.T) string {
	root := t.TempDir()
	writeLog(t, filepath.Join(root, "api", ".smooai-logs", "out.jsonl"),
		`{"time":"2024-01-01T00:00:01Z","level":"info","msg":"started","service":"api","traceId":"t-1"}`+"\n"+
			`{"time":"2024-01-01T00:00:03Z","level":"error","msg":"boom\nagain","service":"api","traceId":"t-2"}`+"\n")
	writeLog(t, filepath.Join(root, "worker", ".smooai-logs", "out.log"),
		`{"time":"2024-01-01T00:00:02Z","level":"info","msg":"tick","service":"worker"}`+"\n")
	return root
}

func TestResolveRoot(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolveRoot("", "")
	if err != nil || got != cwd {
		t.Fatalf("resolveRoot(\"\", \"\") = %q, %v; want %q", got, err, cwd)
	}
	got, _ = resolveRoot("", "/var/log")
	if got != "/var/log" {
		t.Fatalf("config root: got %q", got)
	}
	got, _ = resolveRoot(" /srv ", "/var/log")
	if got != "/srv" {
		t.Fatalf("flag root should win: got %q", got)
	}
}

func TestEngineOptions_PrefsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.NewestFirst = true

	p := prefs.Default()
	opts := engineOptions(cfg, p, nil)
	if !opts.NewestFirst {
		t.Fatal("config sort direction should apply without a preference")
	}
	if len(opts.VisibleColumns) != 2 || opts.VisibleColumns[0] != "traceId" {
		t.Fatalf("VisibleColumns = %v", opts.VisibleColumns)
	}

	oldest := false
	p.NewestFirst = &oldest
	p.RegexMode = true
	opts = engineOptions(cfg, p, nil)
	if opts.NewestFirst {
		t.Fatal("stored preference should override config")
	}
	if !opts.Regex {
		t.Fatal("regex preference not applied")
	}
	if opts.Discovery.Sentinel != cfg.Sentinel {
		t.Fatalf("Sentinel = %q", opts.Discovery.Sentinel)
	}
}

func TestCompactRecord(t *testing.T) {
	if got := compactRecord("{\n  \"a\": 1\n}"); got != `{"a":1}` {
		t.Fatalf("compactRecord(json) = %q", got)
	}
	if got := compactRecord("plain \"text\""); got != `"plain \"text\""` {
		t.Fatalf("compactRecord(text) = %q", got)
	}
}

func TestIndexError(t *testing.T) {
	if err := indexError(nil); err != nil {
		t.Fatalf("nil: %v", err)
	}
	fe := &indexer.FileError{Path: "a.log", Err: os.ErrPermission}
	if err := indexError(fe); err != nil {
		t.Fatalf("file errors should be ignored, got %v", err)
	}
	rootErr := errors.New("discover log files: boom")
	if err := indexError(rootErr); !errors.Is(err, rootErr) {
		t.Fatalf("root error should pass through, got %v", err)
	}
}

func TestQuery_Text(t *testing.T) {
	root := sampleRoot(t)
	var out bytes.Buffer
	err := Query(t.Context(), testOptions(t, root), QueryOptions{Columns: []string{"trace"}}, &out)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	// Newest first by default.
	if !strings.HasPrefix(lines[0], "2024-01-01T00:00:03Z ERROR [api] boom again traceId=t-2") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[worker] tick") {
		t.Fatalf("second line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "out.jsonl:1)") {
		t.Fatalf("third line should cite its source: %q", lines[2])
	}
}

func TestQuery_FiltersLimitAndJSON(t *testing.T) {
	root := sampleRoot(t)
	var out bytes.Buffer
	q := QueryOptions{
		Filters:     filter.Filters{Level: "info"},
		Limit:       1,
		OldestFirst: true,
		JSON:        true,
	}
	if err := Query(t.Context(), testOptions(t, root), q, &out); err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := `{"time":"2024-01-01T00:00:01Z","level":"info","msg":"started","service":"api","traceId":"t-1"}` + "\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestQuery_RootError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	err := Query(t.Context(), testOptions(t, missing), QueryOptions{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestExport(t *testing.T) {
	root := sampleRoot(t)
	dir := t.TempDir()
	var out bytes.Buffer
	if err := Export(t.Context(), testOptions(t, root), dir, &out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q", out.String())
	}
	if filepath.Dir(lines[0]) != dir {
		t.Fatalf("export written to %q, want dir %q", lines[0], dir)
	}
	if _, err := os.Stat(lines[0]); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if lines[1] != "2 files, 3 rows, 5 columns" {
		t.Fatalf("summary = %q", lines[1])
	}
}

func TestPump_StopsOnStepOrCancel(t *testing.T) {
	root := sampleRoot(t)
	s, err := load(testOptions(t, root), false)
	if err != nil {
		t.Fatal(err)
	}
	eng := newTestEngine(s)
	defer eng.Close()

	calls := 0
	err = pump(t.Context(), eng, time.Millisecond, func(bool) bool {
		calls++
		return calls < 3
	})
	if err != nil || calls != 3 {
		t.Fatalf("pump = %v after %d calls", err, calls)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err = pump(ctx, eng, time.Millisecond, func(bool) bool { return true })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("pump on cancelled ctx = %v", err)
	}
}

func TestWaitForIndex(t *testing.T) {
	root := sampleRoot(t)
	s, err := load(testOptions(t, root), false)
	if err != nil {
		t.Fatal(err)
	}
	eng := newTestEngine(s)
	defer eng.Close()

	if err := eng.StartFullIndex(t.Context(), root); err != nil {
		t.Fatal(err)
	}
	if err := waitForIndex(t.Context(), eng); err != nil {
		t.Fatal(err)
	}
	if eng.Indexing() || eng.Catalog().Len() != 3 {
		t.Fatalf("indexing=%v rows=%d", eng.Indexing(), eng.Catalog().Len())
	}
}

func newTestEngine(s *settings) *engine.Engine {
	return engine.New(engineOptions(s.cfg, s.prefs, s.logger))
}
