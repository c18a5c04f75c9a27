// Package sqlite stores portrait rows in a single SQLite file, for
// command line runs without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/store"

	_ "modernc.org/sqlite"
)

type PortraitFileStorage struct {
	db *sql.DB
}

var _ store.PortraitStorage = (*PortraitFileStorage)(nil)

// Open opens or creates the database at path and ensures the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*PortraitFileStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared between calls.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaSQL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &PortraitFileStorage{db: db}, nil
}

func (s *PortraitFileStorage) Close() error {
	return s.db.Close()
}

func (s *PortraitFileStorage) SaveDocument(ctx context.Context, documentID string, runID string, rows []common.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	if _, err := tx.ExecContext(ctx, upsertDocumentSQL, documentID, runID, len(rows), now); err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", documentID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM portrait_rows WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear rows of %s: %w", documentID, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRowSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, store.RowValues(documentID, i, r)...); err != nil {
			return fmt.Errorf("failed to insert row %d of %s: %w", i, documentID, err)
		}
	}

	return tx.Commit()
}

func (s *PortraitFileStorage) GetDocumentRows(ctx context.Context, documentID string) ([]common.Row, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE id = ?`, documentID).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, selectRowsSQL, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of %s: %w", documentID, err)
	}
	defer rows.Close()

	var out []common.Row
	for rows.Next() {
		var r common.Row
		var pos string
		if err := rows.Scan(&r.PortraitID, &r.MentionID, &r.Relation, &r.Description, &pos, &r.TermID, &r.DepRel, &r.ConstituentHead); err != nil {
			return nil, err
		}
		r.POS = common.POS(pos)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PortraitFileStorage) DeleteDocument(ctx context.Context, documentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM portrait_rows WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to delete rows of %s: %w", documentID, err)
	}
	return tx.Commit()
}

func (s *PortraitFileStorage) ListDocuments(ctx context.Context) ([]store.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, run_id, row_count, updated_at FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []store.DocumentInfo
	for rows.Next() {
		var d store.DocumentInfo
		var updated int64
		if err := rows.Scan(&d.ID, &d.RunID, &d.Rows, &updated); err != nil {
			return nil, err
		}
		d.UpdatedAt = time.UnixMilli(updated)
		out = append(out, d)
	}
	return out, rows.Err()
}

var schemaSQL = []string{`
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS portrait_rows (
	document_id      TEXT NOT NULL,
	position         INTEGER NOT NULL,
	mp_identifier    TEXT NOT NULL,
	mention_id       TEXT NOT NULL,
	relation         TEXT NOT NULL,
	description      TEXT NOT NULL,
	pos              TEXT NOT NULL,
	term_id          TEXT NOT NULL,
	dep_rel          TEXT NOT NULL,
	constituent_head TEXT NOT NULL,
	PRIMARY KEY (document_id, position)
)`,
}

const upsertDocumentSQL = `
INSERT INTO documents (id, run_id, row_count, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE
SET run_id = excluded.run_id,
    row_count = excluded.row_count,
    updated_at = excluded.updated_at
`

var insertRowSQL = "INSERT INTO portrait_rows (document_id, position, " +
	strings.Join(store.RowColumns, ", ") +
	") VALUES (?, ?" + strings.Repeat(", ?", len(store.RowColumns)) + ")"

var selectRowsSQL = "SELECT " + strings.Join(store.RowColumns, ", ") +
	" FROM portrait_rows WHERE document_id = ? ORDER BY position"
