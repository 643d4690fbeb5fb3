package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is the database file. ":memory:" keeps the database in memory.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration

	Logger *slog.Logger
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/journal.db",
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore is a Store backed by an SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database, creating the schema if needed.
func NewSQLiteStore(cfg *SQLiteConfig) (*SQLiteStore, error) {
	defaults := DefaultSQLiteConfig()
	if cfg == nil {
		cfg = defaults
	}
	c := *cfg
	if c.Path == "" {
		c.Path = defaults.Path
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = defaults.MaxOpenConns
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = defaults.BusyTimeout
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "journal.sqlite")

	inMemory := c.Path == ":memory:"
	if !inMemory {
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, storageError("sqlite", "create_dir", err)
			}
		}
	}

	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, storageError("sqlite", "open", err)
	}
	if inMemory {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
		c.WALMode = false
	} else {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}

	s := &SQLiteStore{db: db, config: &c, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("journal database opened",
		"path", c.Path,
		"wal_mode", c.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return storageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return storageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return storageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return storageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return storageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return storageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Record inserts an entry.
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	resources, err := json.Marshal(entry.Resources)
	if err != nil {
		return storageError("sqlite", "record", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO loads (
			id, started_at, trigger_name, resources, status,
			definitions, aliases, overrides, version, duration_ns, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Time.UnixNano(), entry.Trigger, string(resources), string(entry.Status),
		entry.Definitions, entry.Aliases, entry.Overrides, nullString(entry.Version),
		int64(entry.Duration), nullString(entry.Error),
	)
	if err != nil {
		return storageError("sqlite", "record", err)
	}
	return nil
}

const selectColumns = `SELECT id, started_at, trigger_name, resources, status,
	definitions, aliases, overrides, version, duration_ns, error FROM loads`

// List returns matching entries, newest first.
func (s *SQLiteStore) List(ctx context.Context, q *Query) ([]*Entry, error) {
	var where []string
	var args []any
	if q != nil {
		if q.Status != "" {
			where = append(where, "status = ?")
			args = append(args, string(q.Status))
		}
		if !q.Since.IsZero() {
			where = append(where, "started_at >= ?")
			args = append(args, q.Since.UnixNano())
		}
		if !q.Before.IsZero() {
			where = append(where, "started_at < ?")
			args = append(args, q.Before.UnixNano())
		}
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, rowid DESC"
	if q != nil && q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("sqlite", "list", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storageError("sqlite", "scan", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("sqlite", "list", err)
	}
	return out, nil
}

// Get returns the entry with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("sqlite", "get", err)
	}
	return e, nil
}

// Count returns the number of entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loads").Scan(&n); err != nil {
		return 0, storageError("sqlite", "count", err)
	}
	return n, nil
}

// DeleteBefore removes entries older than cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM loads WHERE started_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, storageError("sqlite", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("sqlite", "delete", err)
	}
	return n, nil
}

// Trim removes the oldest entries until at most keep remain.
func (s *SQLiteStore) Trim(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM loads WHERE id NOT IN (
			SELECT id FROM loads ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, storageError("sqlite", "trim", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("sqlite", "trim", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e          Entry
		startedAt  int64
		resources  string
		status     string
		version    sql.NullString
		durationNS int64
		errMsg     sql.NullString
	)
	err := row.Scan(&e.ID, &startedAt, &e.Trigger, &resources, &status,
		&e.Definitions, &e.Aliases, &e.Overrides, &version, &durationNS, &errMsg)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resources), &e.Resources); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	e.Time = time.Unix(0, startedAt).UTC()
	e.Status = Status(status)
	e.Version = version.String
	e.Duration = time.Duration(durationNS)
	e.Error = errMsg.String
	return &e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
