package depgraph

import "github.com/cltl/micro-portraits/pkg/common"

// TermTable is a TermLookup over a document's terms.
type TermTable struct {
	terms []common.Term
	pos   map[string]int
}

// NewTermTable indexes terms by id. On duplicate ids the first term wins.
func NewTermTable(terms []common.Term) *TermTable {
	tt := &TermTable{
		terms: terms,
		pos:   make(map[string]int, len(terms)),
	}
	for i, t := range terms {
		if _, ok := tt.pos[t.ID]; ok {
			continue
		}
		tt.pos[t.ID] = i
	}
	return tt
}

// Term returns the term with the given id.
func (tt *TermTable) Term(id string) (common.Term, bool) {
	i, ok := tt.pos[id]
	if !ok {
		return common.Term{}, false
	}
	return tt.terms[i], true
}

// Position returns the document position of id, or -1 when unknown.
func (tt *TermTable) Position(id string) int {
	i, ok := tt.pos[id]
	if !ok {
		return -1
	}
	return i
}

// Has reports whether id is a known term.
func (tt *TermTable) Has(id string) bool {
	_, ok := tt.pos[id]
	return ok
}

// Terms returns the terms in document order.
func (tt *TermTable) Terms() []common.Term {
	return tt.terms
}
