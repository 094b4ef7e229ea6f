package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/kanjikoto/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps the SQLite connection. Every operation holds mu, so only one
// reader or writer touches the database at a time.
type DB struct {
	mu   sync.Mutex
	conn *sql.DB
}

// Open creates a new database connection and migrates the schema to the
// latest version.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: failed to connect to database: %w", domain.ErrStoreUnavailable, err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := migrateUp(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{conn: conn}, nil
}

func migrateUp(conn *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to set up migrations: %w", err)
	}
	// m.Close would close conn as well, so only the source is released.
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Debug().Uint("version", version).Bool("dirty", dirty).Msg("schema-migrated")
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

func unavailable(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, fmt.Sprintf(format, args...), err)
}

// InsertSource inserts a new source into the database and returns its ID.
func (db *DB) InsertSource(ctx context.Context, path, sourceType string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO sources (path, type)
		VALUES (?, ?)
	`, path, sourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable(err, "failed to get last insert ID for source %s", path)
	}
	return id, nil
}

// FindSourceByPath retrieves a source by its path. It returns nil when no
// source has that path.
func (db *DB) FindSourceByPath(ctx context.Context, path string) (*domain.Source, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var s domain.Source
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, path, type, last_scanned
		FROM sources WHERE path = ?
	`, path).Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable(err, "failed to find source by path %s", path)
	}
	return &s, nil
}

// GetAllSources retrieves all stored sources.
func (db *DB) GetAllSources(ctx context.Context) ([]domain.Source, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, path, type, last_scanned
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, unavailable(err, "failed to get all sources")
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var s domain.Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned); err != nil {
			return nil, unavailable(err, "failed to scan source row")
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source. Its lesson is kept but detached, so
// practice history survives re-adding the source under another path.
func (db *DB) DeleteSource(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return unavailable(err, "failed to delete source %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("source %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateSourceLastScanned sets the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(ctx context.Context, sourceID int64, now time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, now, sourceID)
	if err != nil {
		return unavailable(err, "failed to update last scanned for source ID %d", sourceID)
	}
	return nil
}
