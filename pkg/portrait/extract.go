package portrait

import (
	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/logger"
)

// Result holds the portraits of one document after deduplication and,
// unless disabled, coreference merging.
type Result struct {
	DocumentID  string           `json:"document_id"`
	Portraits   []*Microportrait `json:"portraits"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
}

// Rows flattens the result into reportable rows.
func (r *Result) Rows() []common.Row {
	return Rows(r.DocumentID, r.Portraits)
}

// Portrait returns the portrait keyed at id, or nil.
func (r *Result) Portrait(id string) *Microportrait {
	for _, p := range r.Portraits {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Extract runs the full analysis of one document. It does no I/O and
// never fails on malformed parses; problems are reported as diagnostics.
func (c *ExtractorClient) Extract(doc *common.Document) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	d := newDocument(doc, c.surface, c.language)
	portraits := d.sentencePortraits()
	if c.coref && len(doc.Corefs) > 0 {
		portraits = mergeCoreferent(portraits, NewCorefIndex(doc.Corefs), d.diag)
	}

	logger.Debug("[Portrait] Extracted",
		"document", doc.ID,
		"terms", len(doc.Terms),
		"portraits", len(portraits),
		"diagnostics", len(d.diag.items),
	)

	return &Result{
		DocumentID:  doc.ID,
		Portraits:   portraits,
		Diagnostics: d.diag.items,
	}, nil
}
