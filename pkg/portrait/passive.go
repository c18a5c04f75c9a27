package portrait

import (
	"slices"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/depgraph"
)

// analyzePassive handles an entity that is the subject of one head (the
// passive auxiliary) and the direct object of another (the participle).
// The entity is the undergoer of the participle; obliques of both heads
// complete the description, which is where a "door" agent ends up.
func (d *document) analyzePassive(entity string, heads []depgraph.Arc) findings {
	var object, subject depgraph.Arc
	for _, h := range heads {
		switch {
		case h.Relation == common.RelObject && object.ID == "":
			object = h
		case h.Relation == common.RelSubject && subject.ID == "":
			subject = h
		}
	}

	desc := d.activity(object.ID, KindUndergoer, common.RelObject, []string{entity}, passiveRules)
	if subject.ID != object.ID {
		for _, a := range d.graph.DepsOf(subject.ID) {
			if a.ID == object.ID || a.ID == entity {
				continue
			}
			if slices.ContainsFunc(desc.Dependents, func(dep Dependent) bool { return dep.ID == a.ID }) {
				continue
			}
			switch {
			case passiveRules.accept.Has(a.Relation):
				desc.Dependents = append(desc.Dependents, d.dependent(a, ""))
			case passiveRules.ignore.Has(a.Relation):
			default:
				d.diag.add(UnhandledRelation, a.ID, a.Relation, "dependent of passive auxiliary "+subject.ID)
			}
		}
	}

	return findings{activities: []Description{desc}}
}
