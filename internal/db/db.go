// Package db wraps the SQLite connection used for playlist persistence.
// It owns schema creation and captures a human-readable description of
// the last failure for the layers above.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "songplayer"
	dbFileName = "playlists.db"
)

// DB is a thin adapter over the SQL engine. Expected failures
// (uniqueness violations, missing rows) surface as error returns; every
// failure path also updates LastError and fires the error handler.
type DB struct {
	sql     *sql.DB
	lastErr string
	onError func(msg string)
}

// DefaultPath returns the default database file location, creating the
// parent directory if needed.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens (or creates) the database at path and initializes the
// schema. An empty path uses DefaultPath. ":memory:" is accepted for
// tests.
func Open(path string) (*DB, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{sql: conn}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, d.capture("set pragma", err)
		}
	}

	if err := initSchema(d); err != nil {
		conn.Close()
		return nil, err
	}

	return d, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// SetErrorHandler registers fn to receive database-error notifications.
func (d *DB) SetErrorHandler(fn func(msg string)) {
	d.onError = fn
}

// LastError returns a description of the most recent failure, or "".
func (d *DB) LastError() string {
	return d.lastErr
}

// capture records err under the given operation name, fires the error
// handler, and returns a wrapped error. A nil err passes through.
func (d *DB) capture(op string, err error) error {
	if err == nil {
		return nil
	}
	d.lastErr = fmt.Sprintf("%s failed: %v", op, err)
	if d.onError != nil {
		d.onError(d.lastErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Query executes a parameterized query and returns its rows.
func (d *DB) Query(op, query string, args ...any) (*sql.Rows, error) {
	rows, err := d.sql.Query(query, args...)
	if err != nil {
		return nil, d.capture(op, err)
	}
	return rows, nil
}

// QueryRow executes a parameterized query expected to return at most
// one row.
func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.sql.QueryRow(query, args...)
}

// Exec executes a parameterized non-query statement.
func (d *DB) Exec(op, query string, args ...any) error {
	_, err := d.sql.Exec(query, args...)
	return d.capture(op, err)
}

// ExecRows executes a parameterized non-query statement and returns
// the number of affected rows.
func (d *DB) ExecRows(op, query string, args ...any) (int64, error) {
	res, err := d.sql.Exec(query, args...)
	if err != nil {
		return 0, d.capture(op, err)
	}
	n, err := res.RowsAffected()
	return n, d.capture(op, err)
}

// WithTx executes fn within a transaction: begin, rollback on error,
// commit on success. Failures at any step are captured.
func (d *DB) WithTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return d.capture(op, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return d.capture(op, err)
	}
	if err := tx.Commit(); err != nil {
		return d.capture(op, err)
	}
	return nil
}
