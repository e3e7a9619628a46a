package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/orson-vision/orson-assets/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// DefaultDataDir is the history directory used when none is configured.
const DefaultDataDir = ".orson-assets"

// DatabaseName is the file name of the history database.
const DatabaseName = "history.db"

// Store is a SQLite database holding the run history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in dataDir.
// If dataDir is empty, DefaultDataDir is used.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)

	// WAL mode lets `history` read while a run writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_runs.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores a finished run. Saving the same run ID again replaces it.
func (r *runStore) Save(ctx context.Context, rec domain.RunRecord) error {
	if rec.ID == "" {
		return errors.New("saving run: empty id")
	}
	failures := rec.Failures
	if failures == nil {
		failures = []domain.ManifestFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("marshalling failures: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, total, preexisting, downloaded,
			placeholder, failed, network_errors, not_found, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			total = excluded.total,
			preexisting = excluded.preexisting,
			downloaded = excluded.downloaded,
			placeholder = excluded.placeholder,
			failed = excluded.failed,
			network_errors = excluded.network_errors,
			not_found = excluded.not_found,
			failures = excluded.failures
	`, rec.ID, rec.StartedAt.UTC(), rec.FinishedAt.UTC(), rec.Total, rec.Preexisting, rec.Downloaded,
		rec.Placeholder, rec.Failed, rec.NetworkErrors, rec.NotFound, string(failuresJSON))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *runStore) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, total, preexisting, downloaded,
			placeholder, failed, network_errors, not_found, failures
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			rec          domain.RunRecord
			startedAt    time.Time
			finishedAt   time.Time
			failuresJSON string
		)
		if err := rows.Scan(&rec.ID, &startedAt, &finishedAt, &rec.Total, &rec.Preexisting, &rec.Downloaded,
			&rec.Placeholder, &rec.Failed, &rec.NetworkErrors, &rec.NotFound, &failuresJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.StartedAt = startedAt
		rec.FinishedAt = finishedAt
		if failuresJSON != "" {
			if err := json.Unmarshal([]byte(failuresJSON), &rec.Failures); err != nil {
				return nil, fmt.Errorf("unmarshalling failures: %w", err)
			}
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
