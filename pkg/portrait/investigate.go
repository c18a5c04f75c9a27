package portrait

import (
	"slices"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/depgraph"
)

// maxCoordinationDepth bounds the walk up through nested coordinations.
const maxCoordinationDepth = 16

// findings is what an analyzer contributes to a portrait. Analyzers
// return findings instead of writing into the portrait so that each of
// them can be run in isolation.
type findings struct {
	activities []Description
	properties []Description
}

func (f *findings) merge(o findings) {
	f.activities = append(f.activities, o.activities...)
	f.properties = append(f.properties, o.properties...)
}

// investigate classifies the relations governing entity into activities
// and predicative properties.
func (d *document) investigate(entity string) findings {
	return d.investigateFrom(entity, 0, make(map[string]struct{}))
}

func (d *document) investigateFrom(entity string, depth int, seen map[string]struct{}) findings {
	heads := d.graph.HeadsOf(entity)
	if len(heads) == 0 {
		return findings{}
	}

	heads, ok := d.resolveHeads(heads)
	if !ok {
		d.diag.add(AmbiguousHeads, entity, heads[0].Relation, "no coordination, control or verbal complement hierarchy among heads")
		return findings{}
	}
	if isPassive(heads) {
		return d.analyzePassive(entity, heads)
	}

	var f findings
	for _, h := range heads {
		f.merge(d.dispatch(entity, h, depth, seen))
	}
	return f
}

func (d *document) dispatch(entity string, head depgraph.Arc, depth int, seen map[string]struct{}) findings {
	switch ruleFor(head.Relation) {
	case analysisSubject:
		return d.analyzeSubject(entity, head)
	case analysisObject:
		return d.analyzeObject(entity, head)
	case analysisSecondObject:
		return d.analyzeSecondObject(entity, head)
	case analysisCoordination:
		return d.analyzeCoordination(head, depth, seen)
	case analysisIgnore:
		return findings{}
	default:
		d.diag.add(UnhandledRelation, entity, head.Relation, "governing relation from "+head.ID)
		return findings{}
	}
}

// resolveHeads reduces competing heads to the ones worth analysing. It
// returns the unreduced heads and false when the heads share one relation
// but are neither coordinated/controlled nor hierarchically ordered.
func (d *document) resolveHeads(heads []depgraph.Arc) ([]depgraph.Arc, bool) {
	if len(heads) <= 1 {
		return heads, true
	}

	kept := make([]depgraph.Arc, 0, len(heads))
	for _, h := range heads {
		if h.Relation != common.RelModifier {
			kept = append(kept, h)
		}
	}
	if len(kept) <= 1 || !sameRelation(kept) {
		return kept, true
	}
	if d.converging(kept) {
		return kept, true
	}
	if deeper, ok := d.deeperHead(kept); ok {
		return []depgraph.Arc{deeper}, true
	}
	return kept, false
}

func sameRelation(heads []depgraph.Arc) bool {
	for _, h := range heads[1:] {
		if h.Relation != heads[0].Relation {
			return false
		}
	}
	return true
}

// converging reports whether every head hangs below a coordination or
// control relation, directly or through a single governor that does.
// Root heads count as converging.
func (d *document) converging(heads []depgraph.Arc) bool {
	for _, h := range heads {
		for _, g := range d.graph.HeadsOf(h.ID) {
			if convergingRelations.Has(g.Relation) {
				continue
			}
			up := d.graph.HeadsOf(g.ID)
			if len(up) == 1 && convergingRelations.Has(up[0].Relation) {
				continue
			}
			return false
		}
	}
	return true
}

// deeperHead finds the head that is the verbal complement of another of
// the heads, as with an auxiliary and its participle.
func (d *document) deeperHead(heads []depgraph.Arc) (depgraph.Arc, bool) {
	for _, h := range heads {
		for _, g := range d.graph.HeadsOf(h.ID) {
			if g.Relation != common.RelVerbComp {
				continue
			}
			if slices.ContainsFunc(heads, func(o depgraph.Arc) bool { return o.ID == g.ID }) {
				return h, true
			}
		}
	}
	return depgraph.Arc{}, false
}

// isPassive reports whether the entity is at the same time a subject and
// a direct object, the shape Alpino gives the surface subject of a
// passive.
func isPassive(heads []depgraph.Arc) bool {
	var subject, object bool
	for _, h := range heads {
		switch h.Relation {
		case common.RelSubject:
			subject = true
		case common.RelObject:
			object = true
		}
	}
	return subject && object
}

// analyzeCoordination continues the analysis at the coordinator the
// entity is a conjunct of.
func (d *document) analyzeCoordination(head depgraph.Arc, depth int, seen map[string]struct{}) findings {
	coordinator := head.ID
	if _, ok := seen[coordinator]; ok || depth >= maxCoordinationDepth {
		return findings{}
	}
	seen[coordinator] = struct{}{}
	return d.investigateFrom(coordinator, depth+1, seen)
}
