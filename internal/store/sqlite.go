package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteBackend persists both quota domains in a single SQLite database.
// It is the default backing for the serve command, where records must
// survive process restarts.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database in dataDir. Pass ":memory:"
// for an in-memory database (tests).
func OpenSQLite(dataDir string) (*SQLiteBackend, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "prospect.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" under the driver.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		domain    TEXT NOT NULL,
		namespace TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     BLOB NOT NULL,
		PRIMARY KEY (domain, namespace, key)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating records table: %w", err)
	}

	log.Debug().Str("dsn", dsn).Msg("SQLite backend opened")
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, d Domain, ns Namespace, key string) ([]byte, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT value FROM records WHERE domain = ? AND namespace = ? AND key = ?",
		string(d), string(ns), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, d Domain, ns Namespace, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO records (domain, namespace, key, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(domain, namespace, key) DO UPDATE SET value = excluded.value`,
		string(d), string(ns), key, value,
	)
	return err
}

func (b *SQLiteBackend) Delete(ctx context.Context, d Domain, ns Namespace, key string) error {
	_, err := b.db.ExecContext(ctx,
		"DELETE FROM records WHERE domain = ? AND namespace = ? AND key = ?",
		string(d), string(ns), key,
	)
	return err
}

func (b *SQLiteBackend) List(ctx context.Context, d Domain, ns Namespace) (map[string][]byte, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT key, value FROM records WHERE domain = ? AND namespace = ?",
		string(d), string(ns),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) Usage(ctx context.Context, d Domain) (int64, error) {
	var used sql.NullInt64
	err := b.db.QueryRowContext(ctx,
		"SELECT SUM(LENGTH(value)) FROM records WHERE domain = ?",
		string(d),
	).Scan(&used)
	if err != nil {
		return 0, err
	}
	return used.Int64, nil
}

func (b *SQLiteBackend) Clear(ctx context.Context, d Domain) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM records WHERE domain = ?", string(d))
	return err
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
