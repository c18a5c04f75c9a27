package portrait

import (
	"fmt"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/logger"
)

// DiagnosticKind classifies a recoverable problem met during extraction.
type DiagnosticKind string

const (
	// UnhandledRelation: a relation label outside the documented sets.
	UnhandledRelation DiagnosticKind = "unhandled_relation"
	// AmbiguousHeads: competing heads that could not be reduced to a
	// coordination, control structure or single deeper head.
	AmbiguousHeads DiagnosticKind = "ambiguous_heads"
	// MissingHead: an edge endpoint or a preposition without a governor.
	MissingHead DiagnosticKind = "missing_head"
	// MergeConflict: a merge target had already been redirected to
	// another representative.
	MergeConflict DiagnosticKind = "merge_conflict"
)

// Diagnostic describes one recovered problem. None of them stop the
// extraction of a document.
type Diagnostic struct {
	Kind     DiagnosticKind  `json:"kind"`
	TermID   string          `json:"term_id"`
	Relation common.Relation `json:"relation,omitempty"`
	Context  string          `json:"context"`
}

func (d Diagnostic) String() string {
	if d.Relation != common.RelUnknown {
		return fmt.Sprintf("%s: %s (%s) %s", d.Kind, d.TermID, d.Relation, d.Context)
	}
	return fmt.Sprintf("%s: %s %s", d.Kind, d.TermID, d.Context)
}

type diagnostics struct {
	documentID string
	items      []Diagnostic
}

func (d *diagnostics) add(kind DiagnosticKind, termID string, rel common.Relation, context string) {
	d.items = append(d.items, Diagnostic{Kind: kind, TermID: termID, Relation: rel, Context: context})
	logger.Debug("[Portrait] "+string(kind),
		"document", d.documentID,
		"term", termID,
		"relation", rel.String(),
		"context", context,
	)
}
