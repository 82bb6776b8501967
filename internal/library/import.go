// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/ream/pkg/types"
)

// ImportSummary counts the rows copied by ImportLegacy.
type ImportSummary struct {
	Queued int
	Read   int
}

// Total returns the number of papers imported.
func (s ImportSummary) Total() int {
	return s.Queued + s.Read
}

// ImportLegacy copies queued and read papers from an older database file
// with queued_paper and read_paper tables. All rows are imported in a single
// transaction; nothing is written if any row fails.
func (s *Store) ImportLegacy(ctx context.Context, path string) (ImportSummary, error) {
	if _, err := os.Stat(path); err != nil {
		return ImportSummary{}, fmt.Errorf("legacy database: %w", err)
	}
	old, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return ImportSummary{}, fmt.Errorf("opening legacy database: %w", err)
	}
	defer old.Close()

	queued, err := readLegacyQueued(ctx, old)
	if err != nil {
		return ImportSummary{}, err
	}
	read, err := readLegacyRead(ctx, old)
	if err != nil {
		return ImportSummary{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range queued {
		if _, err := insertQueued(ctx, tx, p); err != nil {
			return ImportSummary{}, err
		}
	}
	for _, r := range read {
		if _, err := insertRead(ctx, tx, r); err != nil {
			return ImportSummary{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("committing import: %w", err)
	}
	return ImportSummary{Queued: len(queued), Read: len(read)}, nil
}

// Legacy columns are read as text: older versions stored form input
// verbatim, so numeric columns may hold strings and any column may be NULL.
func readLegacyQueued(ctx context.Context, db *sql.DB) ([]types.QueuedPaper, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT authors, title, venue, year, date_added, priority, url FROM queued_paper`)
	if err != nil {
		return nil, fmt.Errorf("reading legacy queued papers: %w", err)
	}
	defer rows.Close()

	var papers []types.QueuedPaper
	for rows.Next() {
		var authors, title, venue, year, dateAdded, priority, url sql.NullString
		if err := rows.Scan(&authors, &title, &venue, &year, &dateAdded, &priority, &url); err != nil {
			return nil, fmt.Errorf("scanning legacy queued paper: %w", err)
		}
		p := types.QueuedPaper{
			PaperFields: legacyFields(authors, title, venue, year, url),
			DateAdded:   parseTime(dateAdded.String),
			Priority:    types.Priority(legacyInt(priority)),
		}
		if !p.Priority.Valid() {
			p.Priority = types.PriorityMedium
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func readLegacyRead(ctx context.Context, db *sql.DB) ([]types.ReadPaper, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT authors, title, venue, year, date_added, date_read, status, url, note FROM read_paper`)
	if err != nil {
		return nil, fmt.Errorf("reading legacy read papers: %w", err)
	}
	defer rows.Close()

	var papers []types.ReadPaper
	for rows.Next() {
		var authors, title, venue, year, dateAdded, dateRead, status, url, note sql.NullString
		if err := rows.Scan(&authors, &title, &venue, &year, &dateAdded, &dateRead, &status, &url, &note); err != nil {
			return nil, fmt.Errorf("scanning legacy read paper: %w", err)
		}
		r := types.ReadPaper{
			PaperFields: legacyFields(authors, title, venue, year, url),
			DateAdded:   parseTime(dateAdded.String),
			DateRead:    parseTime(dateRead.String),
			Status:      types.ReadStatus(legacyInt(status)),
			Note:        note.String,
		}
		if !r.Status.Valid() {
			r.Status = types.StatusRead
		}
		papers = append(papers, r)
	}
	return papers, rows.Err()
}

func legacyFields(authors, title, venue, year, url sql.NullString) types.PaperFields {
	f := types.PaperFields{
		Authors: authors.String,
		Title:   title.String,
		Venue:   venue.String,
		Year:    legacyInt(year),
		URL:     url.String,
	}
	if f.Year < 0 {
		f.Year = 0
	}
	return f
}

// legacyInt parses a numeric column stored as text, returning -1 when the
// value is missing or not a number.
func legacyInt(v sql.NullString) int {
	if !v.Valid {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.String))
	if err != nil {
		return -1
	}
	return n
}
