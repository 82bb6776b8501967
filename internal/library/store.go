// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the reading queue and the read-paper log in a
// local SQLite database.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ream/pkg/types"
)

// ErrNotFound is returned when a paper ID does not exist.
var ErrNotFound = errors.New("paper not found")

// timeLayout is how timestamps are stored in TEXT columns. The fixed-width
// fraction keeps lexical order equal to chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the library SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the library database at cfg.DBPath and creates the
// schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("library database path is empty")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS queued_papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			authors TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			venue TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			date_added TEXT NOT NULL,
			priority INTEGER NOT NULL,
			url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS read_papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			authors TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			venue TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			date_added TEXT NOT NULL,
			date_read TEXT NOT NULL,
			status INTEGER NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queued_order ON queued_papers(priority, date_added)`,
		`CREATE INDEX IF NOT EXISTS idx_read_date ON read_papers(date_read)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// --- queued papers ---

// AddQueued inserts a paper into the reading queue and returns its ID.
// A zero DateAdded is set to the current time.
func (s *Store) AddQueued(ctx context.Context, p types.QueuedPaper) (int64, error) {
	if !p.Priority.Valid() {
		return 0, fmt.Errorf("invalid priority %d", int(p.Priority))
	}
	if p.DateAdded.IsZero() {
		p.DateAdded = s.now()
	}
	return insertQueued(ctx, s.db, p)
}

func insertQueued(ctx context.Context, ex execer, p types.QueuedPaper) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO queued_papers (authors, title, venue, year, date_added, priority, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Authors, p.Title, p.Venue, p.Year, formatTime(p.DateAdded), int(p.Priority), p.URL)
	if err != nil {
		return 0, fmt.Errorf("inserting queued paper: %w", err)
	}
	return res.LastInsertId()
}

const queuedColumns = `id, authors, title, venue, year, date_added, priority, url`

// ListQueued returns the queue ordered by priority, newest first within a
// priority.
func (s *Store) ListQueued(ctx context.Context) ([]types.QueuedPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+queuedColumns+` FROM queued_papers ORDER BY priority ASC, date_added DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying queued papers: %w", err)
	}
	defer rows.Close()

	var papers []types.QueuedPaper
	for rows.Next() {
		p, err := scanQueued(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// GetQueued returns the queued paper with the given ID.
func (s *Store) GetQueued(ctx context.Context, id int64) (types.QueuedPaper, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+queuedColumns+` FROM queued_papers WHERE id = ?`, id)
	p, err := scanQueued(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.QueuedPaper{}, fmt.Errorf("queued paper %d: %w", id, ErrNotFound)
	}
	return p, err
}

// UpdateQueued overwrites the editable fields of a queued paper. DateAdded
// is left unchanged.
func (s *Store) UpdateQueued(ctx context.Context, p types.QueuedPaper) error {
	if !p.Priority.Valid() {
		return fmt.Errorf("invalid priority %d", int(p.Priority))
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE queued_papers SET authors = ?, title = ?, venue = ?, year = ?, priority = ?, url = ?
		 WHERE id = ?`,
		p.Authors, p.Title, p.Venue, p.Year, int(p.Priority), p.URL, p.ID)
	if err != nil {
		return fmt.Errorf("updating queued paper %d: %w", p.ID, err)
	}
	return requireAffected(res, "queued", p.ID)
}

// DeleteQueued removes a paper from the queue.
func (s *Store) DeleteQueued(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queued_papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting queued paper %d: %w", id, err)
	}
	return requireAffected(res, "queued", id)
}

// MarkRead moves a queued paper to the read log in one transaction and
// returns the new read-paper ID. The queued paper's DateAdded is preserved.
// When r carries no bibliographic fields the queued paper's are used. A zero
// DateRead is set to the current time.
func (s *Store) MarkRead(ctx context.Context, queuedID int64, r types.ReadPaper) (int64, error) {
	if !r.Status.Valid() {
		return 0, fmt.Errorf("invalid status %d", int(r.Status))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	q, err := scanQueued(tx.QueryRowContext(ctx,
		`SELECT `+queuedColumns+` FROM queued_papers WHERE id = ?`, queuedID))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("queued paper %d: %w", queuedID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	if r.PaperFields == (types.PaperFields{}) {
		r.PaperFields = q.PaperFields
	}
	r.DateAdded = q.DateAdded
	if r.DateRead.IsZero() {
		r.DateRead = s.now()
	}

	id, err := insertRead(ctx, tx, r)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM queued_papers WHERE id = ?`, queuedID); err != nil {
		return 0, fmt.Errorf("removing queued paper %d: %w", queuedID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return id, nil
}

// --- read papers ---

func insertRead(ctx context.Context, ex execer, r types.ReadPaper) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO read_papers (authors, title, venue, year, date_added, date_read, status, url, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Authors, r.Title, r.Venue, r.Year, formatTime(r.DateAdded), formatTime(r.DateRead),
		int(r.Status), r.URL, r.Note)
	if err != nil {
		return 0, fmt.Errorf("inserting read paper: %w", err)
	}
	return res.LastInsertId()
}

const readColumns = `id, authors, title, venue, year, date_added, date_read, status, url, note`

// ListRead returns read papers, most recently read first.
func (s *Store) ListRead(ctx context.Context) ([]types.ReadPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readColumns+` FROM read_papers ORDER BY date_read DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying read papers: %w", err)
	}
	defer rows.Close()

	var papers []types.ReadPaper
	for rows.Next() {
		p, err := scanRead(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// GetRead returns the read paper with the given ID.
func (s *Store) GetRead(ctx context.Context, id int64) (types.ReadPaper, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+readColumns+` FROM read_papers WHERE id = ?`, id)
	p, err := scanRead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ReadPaper{}, fmt.Errorf("read paper %d: %w", id, ErrNotFound)
	}
	return p, err
}

// UpdateRead overwrites the editable fields of a read paper. DateAdded and
// DateRead are left unchanged.
func (s *Store) UpdateRead(ctx context.Context, r types.ReadPaper) error {
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status %d", int(r.Status))
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE read_papers SET authors = ?, title = ?, venue = ?, year = ?, status = ?, url = ?, note = ?
		 WHERE id = ?`,
		r.Authors, r.Title, r.Venue, r.Year, int(r.Status), r.URL, r.Note, r.ID)
	if err != nil {
		return fmt.Errorf("updating read paper %d: %w", r.ID, err)
	}
	return requireAffected(res, "read", r.ID)
}

// DeleteRead removes a paper from the read log.
func (s *Store) DeleteRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM read_papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting read paper %d: %w", id, err)
	}
	return requireAffected(res, "read", id)
}

// --- helpers ---

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQueued(sc scanner) (types.QueuedPaper, error) {
	var (
		p         types.QueuedPaper
		dateAdded string
		priority  int
	)
	if err := sc.Scan(&p.ID, &p.Authors, &p.Title, &p.Venue, &p.Year, &dateAdded, &priority, &p.URL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scanning queued paper: %w", err)
	}
	p.Priority = types.Priority(priority)
	p.DateAdded = parseTime(dateAdded)
	return p, nil
}

func scanRead(sc scanner) (types.ReadPaper, error) {
	var (
		r                   types.ReadPaper
		dateAdded, dateRead string
		status              int
	)
	if err := sc.Scan(&r.ID, &r.Authors, &r.Title, &r.Venue, &r.Year, &dateAdded, &dateRead, &status, &r.URL, &r.Note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning read paper: %w", err)
	}
	r.Status = types.ReadStatus(status)
	r.DateAdded = parseTime(dateAdded)
	r.DateRead = parseTime(dateRead)
	return r, nil
}

func requireAffected(res sql.Result, table string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s paper %d: %w", table, id, ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts this package's layout and the layouts older databases
// used. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
