package portrait

import (
	"slices"
	"strings"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/depgraph"
)

// activity describes the event at anchor. Dependents with relation skip
// or with an id in exclude are left out; the others are filtered through
// rules.
func (d *document) activity(anchor string, kind Kind, skip common.Relation, exclude []string, rules secondaryRules) Description {
	desc := Description{
		ID:        anchor,
		MentionID: anchor,
		Kind:      kind,
		Form:      d.formOf(anchor),
		POS:       d.pos(anchor),
		Phrase:    d.formOf(anchor),
	}
	for _, a := range d.graph.DepsOf(anchor) {
		if a.Relation == skip || slices.Contains(exclude, a.ID) {
			continue
		}
		switch {
		case rules.accept.Has(a.Relation):
			desc.Dependents = append(desc.Dependents, d.dependent(a, rules.marker(a.Relation)))
		case rules.ignore.Has(a.Relation):
		default:
			d.diag.add(UnhandledRelation, a.ID, a.Relation, "dependent of "+string(kind)+" event "+anchor)
		}
	}
	return desc
}

// analyzeSubject makes the entity the agent of its head, unless the head
// is a copula with a predicative complement, which is then a property of
// the entity.
func (d *document) analyzeSubject(entity string, head depgraph.Arc) findings {
	var f findings
	for _, a := range d.graph.DepsOf(head.ID) {
		if a.Relation != common.RelPredComp {
			continue
		}
		if d.pos(a.ID) == common.POSVG {
			for _, c := range d.conjuncts(a.ID) {
				f.properties = append(f.properties, d.describe(c.ID, KindProperty, head.ID))
			}
			continue
		}
		f.properties = append(f.properties, d.describe(a.ID, KindProperty, head.ID))
	}
	if len(f.properties) > 0 {
		return f
	}

	f.activities = append(f.activities, d.activity(head.ID, KindAgent, common.RelSubject, []string{entity}, subjectRules))
	return f
}

// analyzeObject makes the entity the undergoer of its head. Only verbal
// and adjectival heads read their subject as the agent (BY). Objects of
// prepositions and complementizers are resolved one level up.
func (d *document) analyzeObject(entity string, head depgraph.Arc) findings {
	switch d.pos(head.ID) {
	case common.POSVerb, common.POSAdj:
		desc := d.activity(head.ID, KindUndergoer, head.Relation, []string{entity}, undergoerRules)
		return findings{activities: []Description{desc}}
	case common.POSPrep, common.POSComp:
		return d.analyzePrepositionalObject(entity, head)
	default:
		desc := d.activity(head.ID, KindUndergoer, head.Relation, []string{entity}, objectRules)
		return findings{activities: []Description{desc}}
	}
}

// analyzePrepositionalObject names the role after the preposition, or
// makes the entity a recipient when the prepositional phrase is the
// second object of its governor.
func (d *document) analyzePrepositionalObject(entity string, head depgraph.Arc) findings {
	prep := head.ID
	role := PrepositionRole(d.formOf(prep))

	governors := d.graph.HeadsOf(prep)
	if len(governors) == 0 {
		d.diag.add(MissingHead, prep, head.Relation, "preposition without governor")
		desc := d.activity(prep, role, head.Relation, []string{entity}, objectRules)
		return findings{activities: []Description{desc}}
	}

	var f findings
	for _, g := range governors {
		kind, rules := role, objectRules
		switch {
		case prepositionRoleRelations.Has(g.Relation):
		case g.Relation == common.RelSecondObject:
			kind, rules = KindRecipient, recipientRules
		case prepositionIgnored.Has(g.Relation):
			continue
		default:
			d.diag.add(UnhandledRelation, prep, g.Relation, "relation between preposition and "+g.ID)
			continue
		}
		f.activities = append(f.activities, d.activity(g.ID, kind, common.RelUnknown, []string{entity, prep}, rules))
	}
	return f
}

// analyzeSecondObject makes the entity the recipient of the head, or
// gives it a role when the head is a support verb.
func (d *document) analyzeSecondObject(entity string, head depgraph.Arc) findings {
	kind, rules := KindRecipient, recipientRules
	if _, ok := lightVerbs[strings.ToLower(d.term(head.ID).Lemma)]; ok {
		kind, rules = KindHasRole, hasRoleRules
	}
	desc := d.activity(head.ID, kind, common.RelSecondObject, []string{entity}, rules)
	return findings{activities: []Description{desc}}
}
