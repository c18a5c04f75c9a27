package store

import (
	"context"
	"errors"
	"time"

	"github.com/cltl/micro-portraits/pkg/common"
)

// ErrNotFound is returned when a document has no stored portraits.
var ErrNotFound = errors.New("document not found")

// DocumentInfo summarises the stored extraction of one document.
type DocumentInfo struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Rows      int       `json:"rows"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PortraitStorage defines the interface for persisting extracted portrait
// rows. Saving a document replaces whatever an earlier run stored for it.
type PortraitStorage interface {
	SaveDocument(ctx context.Context, documentID string, runID string, rows []common.Row) error
	GetDocumentRows(ctx context.Context, documentID string) ([]common.Row, error)
	DeleteDocument(ctx context.Context, documentID string) error
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)
}
