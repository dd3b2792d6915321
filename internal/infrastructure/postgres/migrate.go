package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the schema migrations shipped with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migration is one numbered schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Checksum identifies the exact up script that was applied.
func (m Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.UpSQL))
	return hex.EncodeToString(sum[:])
}

// Migrator applies numbered .up.sql / .down.sql pairs and records them in
// schema_migrations.
type Migrator struct {
	db     DBTX
	logger *slog.Logger
	fsys   fs.FS
}

// NewMigrator creates a migration manager reading scripts from fsys.
func NewMigrator(db DBTX, logger *slog.Logger, fsys fs.FS) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger.With("component", "migrator"),
		fsys:   fsys,
	}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	const query = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		checksum VARCHAR(64) NOT NULL
	)`

	if _, err := m.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// Load reads every migration pair, sorted by version.
func (m *Migrator) Load() ([]Migration, error) {
	entries, err := fs.Glob(m.fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, name := range entries {
		base := strings.TrimSuffix(path.Base(name), ".up.sql")
		versionPart, label, ok := strings.Cut(base, "_")
		if !ok {
			m.logger.Warn("invalid migration filename format", "filename", name)
			continue
		}
		version, err := strconv.Atoi(versionPart)
		if err != nil {
			m.logger.Warn("invalid migration version", "filename", name, "error", err)
			continue
		}

		up, err := fs.ReadFile(m.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read up migration %s: %w", name, err)
		}
		down, err := fs.ReadFile(m.fsys, base+".down.sql")
		if err != nil {
			return nil, fmt.Errorf("failed to read down migration %s: %w", base, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    label,
			UpSQL:   string(up),
			DownSQL: string(down),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}
	return applied, nil
}

// Up applies every pending migration, each in its own transaction.
// It returns the number of migrations applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}

	migrations, err := m.Load()
	if err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return count, err
		}
		count++
	}

	m.logger.InfoContext(ctx, "migrations complete", "applied", count, "total", len(migrations))
	return count, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", mig.Version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
		return fmt.Errorf("failed to apply migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		mig.Version, mig.Name, mig.Checksum(),
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", mig.Version, err)
	}

	m.logger.InfoContext(ctx, "migration applied", "version", mig.Version, "name", mig.Name)
	return nil
}

// Down rolls back the most recently applied migration. It reports false when
// nothing was applied.
func (m *Migrator) Down(ctx context.Context) (bool, error) {
	if err := m.ensureTable(ctx); err != nil {
		return false, err
	}

	migrations, err := m.Load()
	if err != nil {
		return false, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return false, err
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		mig := migrations[i]
		if !applied[mig.Version] {
			continue
		}

		if err := m.revert(ctx, mig); err != nil {
			return false, err
		}
		m.logger.InfoContext(ctx, "migration rolled back", "version", mig.Version, "name", mig.Name)
		return true, nil
	}
	return false, nil
}

func (m *Migrator) revert(ctx context.Context, mig Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rollback %d: %w", mig.Version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, mig.DownSQL); err != nil {
		return fmt.Errorf("failed to roll back migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version); err != nil {
		return fmt.Errorf("failed to unrecord migration %d: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rollback %d: %w", mig.Version, err)
	}
	return nil
}
