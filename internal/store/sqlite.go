// Package store persists index snapshots to SQLite so other tools can query
// sections without re-parsing the documentation tree.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/itsmostafa/docidx/internal/docindex"
)

// ErrNotFound is returned when a section or snapshot is not in the store.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed export target. Each SaveSnapshot replaces the
// previous contents entirely.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			generation TEXT PRIMARY KEY,
			dir TEXT,
			parsed_at TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			title TEXT,
			level INTEGER,
			content TEXT,
			line_start INTEGER,
			line_end INTEGER,
			source_file TEXT,
			parent_id TEXT,
			root_file TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS section_children (
			parent_id TEXT,
			child_id TEXT,
			position INTEGER,
			PRIMARY KEY (parent_id, child_id)
		);`,
		`CREATE TABLE IF NOT EXISTS included_files (
			path TEXT PRIMARY KEY
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_source ON sections(source_file);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot replaces the stored index with snap in a single transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap *docindex.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshots", "sections", "section_children", "included_files"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (generation, dir, parsed_at) VALUES (?, ?, ?)`,
		snap.Generation, snap.Dir, snap.ParsedAt.UTC()); err != nil {
		return err
	}

	sectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (id, title, level, content, line_start, line_end, source_file, parent_id, root_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer sectionStmt.Close()

	childStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO section_children (parent_id, child_id, position) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer childStmt.Close()

	for _, sec := range snap.Sections() {
		_, ix, _ := snap.Section(sec.ID)
		var root string
		if ix != nil {
			root = ix.Root()
		}
		if _, err := sectionStmt.ExecContext(ctx, sec.ID, sec.Title, sec.Level, sec.Content,
			sec.LineStart, sec.LineEnd, sec.SourceFile, sec.ParentID, root); err != nil {
			return fmt.Errorf("save section %s: %w", sec.ID, err)
		}
		for i, child := range sec.Children {
			if _, err := childStmt.ExecContext(ctx, sec.ID, child, i); err != nil {
				return err
			}
		}
	}

	for _, path := range snap.IncludedFiles() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO included_files (path) VALUES (?)`, path); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSection reads one section and its ordered children.
func (s *Store) LoadSection(ctx context.Context, id string) (docindex.Section, error) {
	var sec docindex.Section
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, level, content, line_start, line_end, source_file, parent_id
		FROM sections WHERE id = ?
	`, id).Scan(&sec.ID, &sec.Title, &sec.Level, &sec.Content, &sec.LineStart, &sec.LineEnd, &sec.SourceFile, &sec.ParentID)
	if errors.Is(err, sql.ErrNoRows) {
		return docindex.Section{}, fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return docindex.Section{}, err
	}
	sec.DocumentPosition = sec.LineStart

	rows, err := s.db.QueryContext(ctx,
		`SELECT child_id FROM section_children WHERE parent_id = ? ORDER BY position`, id)
	if err != nil {
		return docindex.Section{}, err
	}
	defer rows.Close()

	sec.Children = []string{}
	for rows.Next() {
		var child string
		if err := rows.Scan(&child); err != nil {
			return docindex.Section{}, err
		}
		sec.Children = append(sec.Children, child)
	}
	return sec, rows.Err()
}

// CountSections returns the number of stored sections.
func (s *Store) CountSections(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&n)
	return n, err
}

// Generation returns the id and parse time of the stored snapshot.
func (s *Store) Generation(ctx context.Context) (string, time.Time, error) {
	var gen string
	var parsedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT generation, parsed_at FROM snapshots LIMIT 1`).Scan(&gen, &parsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, fmt.Errorf("snapshot: %w", ErrNotFound)
	}
	return gen, parsedAt, err
}
