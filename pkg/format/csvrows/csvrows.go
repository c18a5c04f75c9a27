// Package csvrows serialises portrait rows as semicolon separated values.
package csvrows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/cltl/micro-portraits/pkg/common"
)

// Separator is the column delimiter of the row format.
const Separator = ';'

// Writer writes rows after a single header line.
type Writer struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	return &Writer{w: cw}
}

// Write appends rows. Punctuation rows are skipped.
func (w *Writer) Write(rows []common.Row) error {
	if !w.wroteHeader {
		if err := w.w.Write(common.RowHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.wroteHeader = true
	}
	for _, r := range rows {
		if r.POS == common.POSPunct {
			continue
		}
		if err := w.w.Write(r.Record()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.w.Flush()
	return w.w.Error()
}

// Flush writes the header if nothing was written yet and flushes.
func (w *Writer) Flush() error {
	if !w.wroteHeader {
		return w.Write(nil)
	}
	w.w.Flush()
	return w.w.Error()
}

// ErrHeader is returned by Read when the first line is not the row header.
var ErrHeader = errors.New("unexpected row header")

// Read parses rows written by Writer.
func Read(r io.Reader) ([]common.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = len(common.RowHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !slices.Equal(header, common.RowHeader) {
		return nil, ErrHeader
	}

	var rows []common.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row, _ := common.RowFromRecord(rec)
		rows = append(rows, row)
	}
}
