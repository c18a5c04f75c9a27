package depgraph

import (
	"sort"
	"strings"

	"github.com/cltl/micro-portraits/pkg/common"
)

// MaxDepth bounds the traversal below a head. Parses of real sentences
// stay far below it.
const MaxDepth = 64

// Constituent returns head and every term reachable from it through
// dependency edges, in depth-first discovery order. Each term is visited
// at most once, so cyclic edge lists terminate.
func (ix *Index) Constituent(head string) []string {
	visited := map[string]struct{}{head: {}}
	out := []string{head}

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if depth >= MaxDepth {
			return
		}
		for _, a := range ix.deps[id] {
			if _, ok := visited[a.ID]; ok {
				continue
			}
			visited[a.ID] = struct{}{}
			out = append(out, a.ID)
			walk(a.ID, depth+1)
		}
	}
	walk(head, 0)

	return out
}

// TermLookup resolves term ids to terms.
type TermLookup interface {
	Term(id string) (common.Term, bool)
	Position(id string) int
}

// FormFunc selects the string that represents a term in a phrase.
type FormFunc func(common.Term) string

// LemmaForm represents a term by its lemma.
func LemmaForm(t common.Term) string {
	return t.Lemma
}

// OrderBySurface returns a copy of ids sorted by first-token offset. Ties
// are broken by document position and then by id; unknown ids sort last.
func OrderBySurface(ids []string, terms TermLookup) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	key := func(id string) (int, int, bool) {
		t, ok := terms.Term(id)
		if !ok {
			return 0, 0, false
		}
		return t.Offset, terms.Position(id), true
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, pi, ki := key(out[i])
		oj, pj, kj := key(out[j])
		if ki != kj {
			return ki
		}
		if oi != oj {
			return oi < oj
		}
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

// Phrase orders ids by surface position and joins their forms with single
// spaces. Unknown ids are skipped.
func Phrase(ids []string, terms TermLookup, form FormFunc) string {
	if form == nil {
		form = LemmaForm
	}
	ordered := OrderBySurface(ids, terms)
	parts := make([]string, 0, len(ordered))
	for _, id := range ordered {
		t, ok := terms.Term(id)
		if !ok {
			continue
		}
		if f := form(t); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
