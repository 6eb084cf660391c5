// Package migration applies versioned SQL files at startup. Both the
// server and the refresher run it, so an advisory lock serializes
// concurrent starts and checksums catch edited history.
package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// lockKey is an arbitrary fixed advisory-lock key shared by every
// process of this application.
const lockKey int64 = 417230958

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// Runner applies the V<N>__<name>.sql files under Dir in version order.
// Dir defaults to a migrations directory next to the executable.
type Runner struct {
	Dir string
}

type migration struct {
	version  int64
	name     string
	filename string
	sql      string
	checksum string
}

func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}

	dir := strings.TrimSpace(r.Dir)
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return err
		}
		dir = filepath.Join(filepath.Dir(exe), "migrations")
	}

	migs, err := readDir(dir)
	if err != nil || len(migs) == 0 {
		return err
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	return withAdvisoryLock(ctx, db, func() error {
		applied, err := appliedChecksums(ctx, db)
		if err != nil {
			return err
		}
		for _, m := range migs {
			checksum, ok := applied[m.version]
			if ok {
				if checksum != m.checksum {
					return fmt.Errorf("migration checksum mismatch: version=%d name=%s", m.version, m.name)
				}
				continue
			}
			if err := apply(ctx, db, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// readDir parses every matching file in dir, sorted by version. A
// missing directory means no migrations, not an error.
func readDir(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	seen := map[int64]string{}
	var migs []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m, err := parseFile(dir, e.Name())
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		if prev, dup := seen[m.version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", m.version, prev, m.filename)
		}
		seen[m.version] = m.filename
		migs = append(migs, *m)
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].version < migs[j].version })
	return migs, nil
}

// parseFile returns nil for files that do not follow the naming scheme.
func parseFile(dir, name string) (*migration, error) {
	groups := fileRe.FindStringSubmatch(name)
	if groups == nil {
		return nil, nil
	}

	version, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid migration version: %s", name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	sqlText := strings.TrimSpace(string(raw))
	if sqlText == "" {
		return nil, fmt.Errorf("empty migration file: %s", name)
	}

	sum := sha256.Sum256([]byte(sqlText))
	return &migration{
		version:  version,
		name:     groups[2],
		filename: name,
		sql:      sqlText,
		checksum: hex.EncodeToString(sum[:]),
	}, nil
}

func withAdvisoryLock(ctx context.Context, db *sql.DB, fn func() error) error {
	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return err
	}
	defer func() {
		// Unlock on a fresh context so a canceled ctx still releases.
		_, _ = db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()
	return fn()
}

func appliedChecksums(ctx context.Context, db *sql.DB) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var version int64
		var checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		out[version] = checksum
	}
	return out, rows.Err()
}

// apply runs one migration and records it in the same transaction, so a
// half-applied file never counts as done.
func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("apply migration failed: version=%d file=%s: %w", m.version, m.filename, err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.version, m.name, m.checksum,
	); err != nil {
		return err
	}

	return tx.Commit()
}
