package portrait

import (
	"slices"

	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/common"
)

// CorefIndex maps a term id to the ids it has been judged coreferent
// with.
type CorefIndex map[string][]string

// NewCorefIndex links every pair of members of each entity chain.
func NewCorefIndex(chains []common.CorefChain) CorefIndex {
	idx := make(CorefIndex)
	for _, c := range chains {
		if !c.IsEntity() {
			continue
		}
		for _, a := range c.Members {
			for _, b := range c.Members {
				if a == b || slices.Contains(idx[a], b) {
					continue
				}
				idx[a] = append(idx[a], b)
			}
		}
	}
	return idx
}

func (c CorefIndex) has(id string) bool {
	_, ok := c[id]
	return ok
}

// reach returns ids together with everything they corefer with.
func (c CorefIndex) reach(ids []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, id := range ids {
		out[id] = struct{}{}
		for _, o := range c[id] {
			out[o] = struct{}{}
		}
	}
	return out
}

func overlaps(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// mergeCoreferent folds portraits of coreferent mentions into the
// earliest portrait of their group. Groups are the connected components
// of the "reaches overlap" relation, so merging is transitive and
// running it again on its own output changes nothing.
func mergeCoreferent(portraits []*Microportrait, coref CorefIndex, diag *diagnostics) []*Microportrait {
	var candidates []*Microportrait
	for _, p := range portraits {
		if slices.ContainsFunc(p.Identifiers(), coref.has) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) < 2 {
		return portraits
	}

	reach := make([]map[string]struct{}, len(candidates))
	for i, p := range candidates {
		reach[i] = coref.reach(p.Identifiers())
	}

	groups := util.NewDisjointSet[int]()
	for i := range candidates {
		groups.Add(i)
	}
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if !overlaps(reach[i], reach[j]) {
				continue
			}
			redirected := groups.Find(j) != j
			if groups.Union(j, i) && redirected {
				diag.add(MergeConflict, candidates[j].ID, common.RelUnknown,
					"merged through representative "+candidates[groups.Find(j)].ID)
			}
		}
	}

	absorbed := make(map[string]struct{})
	for _, group := range groups.Components() {
		rep := candidates[group[0]]
		for _, k := range group[1:] {
			rep.absorb(candidates[k])
			absorbed[candidates[k].ID] = struct{}{}
		}
	}

	out := make([]*Microportrait, 0, len(portraits)-len(absorbed))
	for _, p := range portraits {
		if _, ok := absorbed[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}
