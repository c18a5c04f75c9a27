package pgx

import (
	"context"
	"errors"
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/store"

	"github.com/google/go-cmp/cmp"
	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeTx struct {
	pgxv5.Tx

	execs      []string
	copies     [][][]any
	copyErr    error
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, sql)
	return pgconn.NewCommandTag("OK"), nil
}

func (tx *fakeTx) CopyFrom(ctx context.Context, table pgxv5.Identifier, columns []string, src pgxv5.CopyFromSource) (int64, error) {
	if tx.copyErr != nil {
		return 0, tx.copyErr
	}
	var batch [][]any
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		batch = append(batch, values)
	}
	tx.copies = append(tx.copies, batch)
	return int64(len(batch)), src.Err()
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeConn struct {
	pgxIConn

	tx  *fakeTx
	tag string
}

func (c *fakeConn) Begin(ctx context.Context) (pgxv5.Tx, error) {
	return c.tx, nil
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(c.tag), nil
}

func rows(n int) []common.Row {
	out := make([]common.Row, n)
	for i := range out {
		out[i] = common.Row{PortraitID: "d#t1", MentionID: "t1", Relation: "label", Description: "man", POS: common.POSNoun}
	}
	return out
}

func TestSaveDocument_CopiesInChunks(t *testing.T) {
	tx := &fakeTx{}
	s := NewPortraitDBStorageWithConnection(&fakeConn{tx: tx}, WithChunkSize(2), nil)

	if err := s.SaveDocument(context.Background(), "d", "run-1", rows(5)); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	if diff := cmp.Diff([]string{upsertDocumentSQL, deleteRowsSQL}, tx.execs); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
	sizes := make([]int, 0, len(tx.copies))
	var positions []any
	for _, batch := range tx.copies {
		sizes = append(sizes, len(batch))
		for _, values := range batch {
			positions = append(positions, values[1])
		}
	}
	if diff := cmp.Diff([]int{2, 2, 1}, sizes); diff != "" {
		t.Fatalf("chunk sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{0, 1, 2, 3, 4}, positions); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
	if !tx.committed {
		t.Fatal("expected commit")
	}
}

func TestSaveDocument_CopyFailureRollsBack(t *testing.T) {
	tx := &fakeTx{copyErr: errors.New("copy failed")}
	s := NewPortraitDBStorageWithConnection(&fakeConn{tx: tx})

	if err := s.SaveDocument(context.Background(), "d", "run-1", rows(1)); err == nil {
		t.Fatal("expected an error")
	}
	if tx.committed || !tx.rolledBack {
		t.Fatalf("expected rollback without commit, got committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := NewPortraitDBStorageWithConnection(&fakeConn{tag: "DELETE 1"})
	if err := s.DeleteDocument(context.Background(), "d"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}

	s = NewPortraitDBStorageWithConnection(&fakeConn{tag: "DELETE 0"})
	if err := s.DeleteDocument(context.Background(), "d"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
