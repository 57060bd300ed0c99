package ledger

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/rzbill/soid/pkg/id"
	logpkg "github.com/rzbill/soid/pkg/log"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteLedger stores entries in a SQLite table whose primary key is the
// 16-byte id, so ORDER BY id is chronological.
type SQLiteLedger struct {
	db     *sql.DB
	logger logpkg.Logger
	now    func() time.Time
}

// OpenSQLite opens the database at dsn, applies migrations and returns a
// ready ledger.
func OpenSQLite(dsn string, logger logpkg.Logger) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: setting WAL mode: %w", err)
	}
	l, err := NewSQLite(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// NewSQLite wraps an existing connection and runs migrations.
func NewSQLite(db *sql.DB, logger logpkg.Logger) (*SQLiteLedger, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	return &SQLiteLedger{db: db, logger: logger.WithComponent("ledger.sqlite"), now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("ledger: setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("ledger: running migrations: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) Put(ctx context.Context, e Entry) error {
	if err := insertEntry(ctx, l.db, e); err != nil {
		return err
	}
	l.logger.Debug("recorded", logpkg.Str("id", e.ID.String()), logpkg.Str("tag", e.Tag))
	return nil
}

// PutBatch inserts every entry in one transaction; nothing is written if any
// id already exists.
func (l *SQLiteLedger) PutBatch(ctx context.Context, entries []Entry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, e := range entries {
		if err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledger: commit: %w", err)
	}
	l.logger.Debug("recorded batch", logpkg.Int("count", len(entries)))
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEntry(ctx context.Context, ex execer, e Entry) error {
	if e.ID.IsZero() {
		return fmt.Errorf("%w: nil id", id.ErrInvalidArgument)
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO ids (id, tag, note, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Tag, e.Note, e.CreatedAt.UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrExists, e.ID)
		}
		return fmt.Errorf("ledger: inserting %s: %w", e.ID, err)
	}
	return nil
}

func (l *SQLiteLedger) Get(ctx context.Context, key id.ID) (Entry, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, tag, note, created_at FROM ids WHERE id = ?`, key)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return e, err
}

func (l *SQLiteLedger) Scan(ctx context.Context, q Query) ([]Entry, error) {
	m, err := newMatcher(q)
	if err != nil {
		return nil, err
	}
	lo, hi := Bounds(q)
	query := `SELECT id, tag, note, created_at FROM ids WHERE id >= ? AND id <= ?`
	args := []any{lo, hi}
	if q.Tag != "" {
		query += ` AND tag = ?`
		args = append(args, q.Tag)
	}
	if q.Reverse {
		query += ` ORDER BY id DESC`
	} else {
		query += ` ORDER BY id ASC`
	}
	// The CEL filter runs after the fetch, so LIMIT only applies without it.
	if q.Limit > 0 && !m.filter.enabled {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: scanning: %w", err)
	}
	defer rows.Close()

	now := l.now()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if !m.match(e, now) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, rows.Err()
}

func (l *SQLiteLedger) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ids`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ledger: counting: %w", err)
	}
	return n, nil
}

// Check runs SQLite's integrity check.
func (l *SQLiteLedger) Check(ctx context.Context) error {
	var result string
	if err := l.db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("ledger: integrity check: %w", err)
	}
	if result != "ok" {
		err := fmt.Errorf("%w: %s", ErrCorrupt, result)
		l.logger.Error("ledger check failed", logpkg.Err(err))
		return err
	}
	return nil
}

func (l *SQLiteLedger) Close() error { return l.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var createdAt int64
	if err := row.Scan(&e.ID, &e.Tag, &e.Note, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("ledger: scanning row: %w", err)
	}
	e.CreatedAt = time.UnixMicro(createdAt).UTC()
	return e, nil
}

// isUniqueViolation checks if a SQLite error is a PRIMARY KEY/UNIQUE violation.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
