package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/record"
)

// FilePrefix starts the name of every export file.
const FilePrefix = "smooai-log-viewer-"

// Write creates a new database in dir holding every row of c and returns
// its path. dir defaults to the OS temp dir. A partially written file is
// removed on failure.
func Write(ctx context.Context, dir string, c *catalog.Catalog) (path string, err error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path = filepath.Join(dir, FilePrefix+uuid.NewString()+".db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", fmt.Errorf("open export db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export db: %w", cerr)
		}
		if err != nil {
			_ = Remove(path)
			path = ""
		}
	}()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return path, fmt.Errorf("create export schema: %w", err)
	}
	if err := insertRows(ctx, db, c); err != nil {
		return path, err
	}
	return path, nil
}

func insertRows(ctx context.Context, db *sql.DB, c *catalog.Catalog) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertRow)
	if err != nil {
		return fmt.Errorf("prepare export insert: %w", err)
	}
	defer stmt.Close()

	for id, row := range c.Rows {
		flat, err := json.Marshal(row.Flat)
		if err != nil {
			flat = []byte("{}")
		}
		var ts any
		if row.HasTime() {
			ts = record.FormatTimestamp(row.Time)
		}
		if _, err := stmt.ExecContext(ctx,
			id, row.FileID, row.LineStart, row.LineEnd, ts, ts,
			nullable(row.Level), nullable(row.Correlation), nullable(row.Name), nullable(row.Message),
			nullable(row.Service), nullable(row.Namespace), nullable(row.TraceID), nullable(row.RequestID),
			row.Raw, string(flat),
		); err != nil {
			return fmt.Errorf("insert export row %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Remove deletes an export file and its SQLite side files. Missing files
// are not an error.
func Remove(path string) error {
	if path == "" || !strings.HasPrefix(filepath.Base(path), FilePrefix) {
		return nil
	}
	var errs []error
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
