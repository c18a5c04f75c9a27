package portrait

import (
	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/depgraph"
)

// sentencePortraits builds one portrait per entity term in document order
// and drops the portraits that were folded into another one.
func (d *document) sentencePortraits() []*Microportrait {
	var portraits []*Microportrait
	for _, t := range d.terms.Terms() {
		if !t.POS.IsEntity() {
			continue
		}
		portraits = append(portraits, d.portraitFor(t))
	}
	return dedupe(portraits)
}

func (d *document) portraitFor(t common.Term) *Microportrait {
	mp := newMicroportrait(t.ID, t.POS)

	deps := d.graph.DepsOf(t.ID)
	name := t.POS == common.POSName && len(deps) > 0
	nameParts := []string{t.ID}

	var labels []Description
	for _, a := range deps {
		switch {
		case name && a.Relation == common.RelMultiword && d.pos(a.ID) == common.POSName:
			nameParts = append(nameParts, a.ID)
			mp.AddColabel(a.ID)
		case labelRelations.Has(a.Relation) || a.Relation == common.RelMultiword:
			for _, desc := range d.expand(a.ID, KindLabel) {
				labels = append(labels, desc)
				mp.AddColabel(desc.ID)
			}
		case propertyRelations.Has(a.Relation):
			mp.Properties = append(mp.Properties, d.expand(a.ID, KindProperty)...)
		default:
			d.diag.add(UnhandledRelation, t.ID, a.Relation, "dependent "+a.ID+" of entity")
		}
	}

	primary := Description{
		ID:        t.ID,
		MentionID: t.ID,
		Kind:      KindLabel,
		Form:      d.formOf(t.ID),
		POS:       t.POS,
	}
	if len(nameParts) > 1 {
		primary.Form = depgraph.Phrase(nameParts, d.terms, d.form)
	}
	primary.Phrase = primary.Form
	mp.Labels = append([]Description{primary}, labels...)

	if d.graph.HasHeads(t.ID) {
		f := d.investigate(t.ID)
		mp.Properties = append(mp.Properties, f.properties...)
		mp.Activities = append(mp.Activities, f.activities...)
	}
	return mp
}

// expand describes id, or each conjunct when id is a coordinator. The
// coordinator is then the mention of every conjunct.
func (d *document) expand(id string, kind Kind) []Description {
	if d.pos(id) != common.POSVG {
		return []Description{d.describe(id, kind, "")}
	}
	var out []Description
	for _, c := range d.conjuncts(id) {
		out = append(out, d.describe(c.ID, kind, id))
	}
	return out
}
