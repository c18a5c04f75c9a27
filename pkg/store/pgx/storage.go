package pgx

import (
	"context"
	"fmt"
	"sync"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

const defaultChunkSize = 1000

// PortraitDBStorage implements the PortraitStorage interface on
// PostgreSQL. Rows are written with COPY inside one transaction per
// document, so readers never see a half-replaced document.
type PortraitDBStorage struct {
	conn      pgxIConn
	chunkSize int
	dbLock    sync.Mutex
}

type PortraitDBStorageOption func(*PortraitDBStorage)

// WithChunkSize sets how many rows are copied per COPY statement.
func WithChunkSize(n int) PortraitDBStorageOption {
	return func(s *PortraitDBStorage) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// NewPortraitDBStorageWithConnection creates a PortraitDBStorage on an
// existing connection or pool. The schema is expected to be migrated.
func NewPortraitDBStorageWithConnection(conn pgxIConn, opts ...PortraitDBStorageOption) *PortraitDBStorage {
	s := &PortraitDBStorage{
		conn:      conn,
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

var _ store.PortraitStorage = (*PortraitDBStorage)(nil)

func (s *PortraitDBStorage) SaveDocument(ctx context.Context, documentID string, runID string, rows []common.Row) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertDocumentSQL, documentID, runID, len(rows)); err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", documentID, err)
	}
	if _, err := tx.Exec(ctx, deleteRowsSQL, documentID); err != nil {
		return fmt.Errorf("failed to clear rows of %s: %w", documentID, err)
	}

	columns := append([]string{"document_id", "position"}, store.RowColumns...)
	err = store.ChunkRange(len(rows), s.chunkSize, func(start, end int) error {
		_, err := tx.CopyFrom(
			ctx,
			pgxv5.Identifier{"portrait_rows"},
			columns,
			pgxv5.CopyFromSlice(end-start, func(i int) ([]any, error) {
				return store.RowValues(documentID, start+i, rows[start+i]), nil
			}),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to copy rows of %s: %w", documentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document %s: %w", documentID, err)
	}

	logger.Debug("[Store][SaveDocument] Stored portrait rows", "document", documentID, "run", runID, "rows", len(rows))
	return nil
}

func (s *PortraitDBStorage) GetDocumentRows(ctx context.Context, documentID string) ([]common.Row, error) {
	var exists bool
	if err := s.conn.QueryRow(ctx, documentExistsSQL, documentID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up document %s: %w", documentID, err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	rows, err := s.conn.Query(ctx, selectRowsSQL, documentID)
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

func (s *PortraitDBStorage) DeleteDocument(ctx context.Context, documentID string) error {
	tag, err := s.conn.Exec(ctx, deleteDocumentSQL, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PortraitDBStorage) ListDocuments(ctx context.Context) ([]store.DocumentInfo, error) {
	rows, err := s.conn.Query(ctx, listDocumentsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []store.DocumentInfo
	for rows.Next() {
		var d store.DocumentInfo
		if err := rows.Scan(&d.ID, &d.RunID, &d.Rows, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const upsertDocumentSQL = `
INSERT INTO documents (id, run_id, row_count, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (id) DO UPDATE
SET run_id     = EXCLUDED.run_id,
    row_count  = EXCLUDED.row_count,
    updated_at = EXCLUDED.updated_at;
`

const deleteRowsSQL = `DELETE FROM portrait_rows WHERE document_id = $1;`

const documentExistsSQL = `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1);`

const selectRowsSQL = `
SELECT mp_identifier, mention_id, relation, description, pos, term_id, dep_rel, constituent_head
FROM portrait_rows
WHERE document_id = $1
ORDER BY position;
`

// portrait_rows cascades on delete.
const deleteDocumentSQL = `DELETE FROM documents WHERE id = $1;`

const listDocumentsSQL = `
SELECT id, run_id, row_count, updated_at
FROM documents
ORDER BY id;
`
