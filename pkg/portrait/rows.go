package portrait

import (
	"github.com/cltl/micro-portraits/pkg/common"
)

// PortraitID returns the identifier used in rows for the portrait keyed
// at termID.
func PortraitID(documentID, termID string) string {
	if documentID == "" {
		return termID
	}
	return documentID + "#" + termID
}

// Rows flattens portraits into reportable rows in portrait order. Rows of
// punctuation terms are dropped.
func Rows(documentID string, portraits []*Microportrait) []common.Row {
	var rows []common.Row
	for _, p := range portraits {
		mpid := PortraitID(documentID, p.ID)
		for _, desc := range p.Facts() {
			rows = append(rows, descriptionRows(mpid, desc)...)
		}
	}

	out := rows[:0]
	for _, r := range rows {
		if r.POS != common.POSPunct {
			out = append(out, r)
		}
	}
	return out
}

func descriptionRows(mpid string, d Description) []common.Row {
	row := func(c Component, depRel, constituentHead string) common.Row {
		return common.Row{
			PortraitID:      mpid,
			MentionID:       d.MentionID,
			Relation:        string(d.Kind),
			Description:     c.Form,
			POS:             c.POS,
			TermID:          c.ID,
			DepRel:          depRel,
			ConstituentHead: constituentHead,
		}
	}

	rows := []common.Row{row(Component{ID: d.ID, Form: d.Form, POS: d.POS}, "head", d.MentionID)}
	for _, c := range d.Constituent {
		rows = append(rows, row(c, "constituent", d.MentionID))
	}
	for _, dep := range d.Dependents {
		rows = append(rows, row(dep.Component, dep.Relation.String(), dep.ID))
		for _, c := range dep.Constituent {
			rows = append(rows, row(c, "constituent", dep.ID))
		}
	}
	return rows
}
