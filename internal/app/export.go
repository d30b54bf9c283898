package app

import (
	"context"
	"fmt"
	"io"

	"github.com/smooai/log-viewer/internal/indexer"
)

// Export indexes the root once and writes the SQLite mirror into dir. The
// database is left in place and its path is written to w.
func Export(ctx context.Context, opts Options, dir string, w io.Writer) error {
	s, err := load(opts, false)
	if err != nil {
		return err
	}
	defer s.close()

	if dir == "" {
		dir = s.cfg.Export.Dir
	}
	res, err := indexer.Build(ctx, s.root, indexer.Options{
		Discovery: discovery(s.cfg),
		Workers:   s.cfg.Workers,
		Export:    true,
		ExportDir: dir,
		Logger:    s.logger,
	}, nil)
	if err != nil {
		return fmt.Errorf("index %s: %w", s.root, err)
	}
	if res.ExportErr != nil {
		return fmt.Errorf("export: %w", res.ExportErr)
	}

	_, err = fmt.Fprintf(w, "%s\n%s\n", res.ExportPath, res.Catalog.Summary())
	return err
}
