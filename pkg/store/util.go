package store

import (
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/common"
)

// RowColumns lists the stored columns of a row after document_id and
// position, in insert order.
var RowColumns = []string{
	"mp_identifier",
	"mention_id",
	"relation",
	"description",
	"pos",
	"term_id",
	"dep_rel",
	"constituent_head",
}

// ChunkRange calls fn for consecutive [start, end) windows of at most
// chunkSize elements.
func ChunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

// RowValues returns the insert values of a row, prefixed with its document
// and position. Text is sanitised for postgres.
func RowValues(documentID string, position int, r common.Row) []any {
	values := []any{documentID, position}
	for _, v := range r.Record() {
		values = append(values, util.SanitizePostgresText(v))
	}
	return values
}
