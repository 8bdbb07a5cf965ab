// Package profile keeps named settings profiles in a SQLite database.
//
// Each profile is a set of raw "group.name" values. A *Profile is a
// config.Backend, so a settings store can load from and save to it.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/camerakeys/internal/config"
)

// DefaultName is the profile used when none is given.
const DefaultName = "default"

var (
	// ErrNotFound indicates the profile does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidName indicates an empty profile name.
	ErrInvalidName = errors.New("invalid profile name")
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS profiles (
	name       TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS settings (
	profile TEXT NOT NULL REFERENCES profiles(name) ON DELETE CASCADE,
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (profile, key)
)`,
}

// DB is a profile database.
type DB struct {
	db      *sql.DB
	timeout time.Duration
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("profile database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", filepath.Clean(path))
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, stmt := range schema {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &DB{db: sqlDB, timeout: 5 * time.Second}, nil
}

// Close releases the database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Names returns the stored profile names in order.
func (d *DB) Names(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Get returns the values of a profile. A missing profile yields nil, nil.
func (d *DB) Get(ctx context.Context, name string) (map[string]string, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	var exists int
	err = d.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", name, err)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE profile = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", name, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Put replaces the values of a profile, creating it if needed.
func (d *DB) Put(ctx context.Context, name string, values map[string]string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO profiles(name, created_at, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET updated_at=excluded.updated_at
`, name, now, now); err != nil {
		return fmt.Errorf("upsert profile %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE profile = ?`, name); err != nil {
		return fmt.Errorf("clear profile %s: %w", name, err)
	}
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `INSERT INTO settings(profile, key, value) VALUES (?, ?, ?)`, name, k, v); err != nil {
			return fmt.Errorf("put %s in profile %s: %w", k, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a profile and its values.
func (d *DB) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Profile returns the backend for one profile.
func (d *DB) Profile(name string) *Profile {
	return &Profile{db: d, name: name}
}

// Profile is a config.Backend over one named profile.
type Profile struct {
	db   *DB
	name string
}

// Name implements config.Backend.
func (p *Profile) Name() string {
	return "profile " + p.name
}

// Load implements config.Backend.
func (p *Profile) Load() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.db.timeout)
	defer cancel()
	return p.db.Get(ctx, p.name)
}

// Save implements config.Backend.
func (p *Profile) Save(values map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.db.timeout)
	defer cancel()
	return p.db.Put(ctx, p.name, values)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

var _ config.Backend = (*Profile)(nil)
