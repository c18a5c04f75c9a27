// Package depgraph indexes the dependency edges of one document and
// resolves the surface constituents governed by a head term.
package depgraph

import "github.com/cltl/micro-portraits/pkg/common"

// Arc is one side of a dependency edge seen from a term: the term on the
// other end and the label of the edge.
type Arc struct {
	ID       string
	Relation common.Relation
}

// Index holds the head→dependents and dependent→heads views of a
// document's dependency edges. It is read-only after Build.
type Index struct {
	deps  map[string][]Arc
	heads map[string][]Arc
	edges int
}

// Build indexes edges in input order.
func Build(edges []common.Dependency) *Index {
	ix := &Index{
		deps:  make(map[string][]Arc),
		heads: make(map[string][]Arc),
	}
	for _, e := range edges {
		ix.deps[e.Head] = append(ix.deps[e.Head], Arc{ID: e.Dependent, Relation: e.Relation})
		ix.heads[e.Dependent] = append(ix.heads[e.Dependent], Arc{ID: e.Head, Relation: e.Relation})
		ix.edges++
	}
	return ix
}

// DepsOf returns the dependents of head. The returned slice must not be
// modified.
func (ix *Index) DepsOf(head string) []Arc {
	return ix.deps[head]
}

// HeadsOf returns the heads governing dep. The returned slice must not be
// modified.
func (ix *Index) HeadsOf(dep string) []Arc {
	return ix.heads[dep]
}

// HasDeps reports whether id governs at least one term.
func (ix *Index) HasDeps(id string) bool {
	return len(ix.deps[id]) > 0
}

// HasHeads reports whether id is governed by at least one term.
func (ix *Index) HasHeads(id string) bool {
	return len(ix.heads[id]) > 0
}

// Len returns the number of indexed edges.
func (ix *Index) Len() int {
	return ix.edges
}

// Relation returns the label of the edge from head to dep, if any.
func (ix *Index) Relation(head, dep string) (common.Relation, bool) {
	for _, a := range ix.deps[head] {
		if a.ID == dep {
			return a.Relation, true
		}
	}
	return common.RelUnknown, false
}
