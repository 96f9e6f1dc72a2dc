package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"
)

// SQLite manages file-backed databases. The database "name" is the file
// path; there is no server and no administrative database, so adminDSN is
// ignored.
type SQLite struct{}

// CreateDatabase implements Engine. Creation is an atomic create-exclusive
// so two processes racing for the same path collide the same way two
// CREATE DATABASE statements would.
func (s *SQLite) CreateDatabase(ctx context.Context, _ string, path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create database file %q: %w", path, err)
	}
	return f.Close()
}

// DropDatabase implements Engine.
func (s *SQLite) DropDatabase(ctx context.Context, _ string, path string, ifExists bool) error {
	err := os.Remove(path)
	if err == nil {
		return nil
	}
	if ifExists && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("drop database file %q: %w", path, err)
}

// Exec implements Engine. The modernc driver executes every statement in
// the supplied text, so scripts are passed through whole instead of being
// split.
func (s *SQLite) Exec(ctx context.Context, path string, statements []string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	defer db.Close()

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute %q: %w", preview(stmt), err)
		}
	}
	return nil
}

var _ Engine = (*SQLite)(nil)
