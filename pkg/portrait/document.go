package portrait

import (
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/depgraph"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// document is the per-document analysis context. It is built once,
// never shared between goroutines and read-only apart from diagnostics.
type document struct {
	id    string
	terms *depgraph.TermTable
	graph *depgraph.Index
	form  depgraph.FormFunc
	diag  *diagnostics
}

func newDocument(doc *common.Document, surface bool, fallbackLanguage string) *document {
	d := &document{
		id:    doc.ID,
		terms: depgraph.NewTermTable(doc.Terms),
		diag:  &diagnostics{documentID: doc.ID},
		form:  depgraph.LemmaForm,
	}

	if surface {
		lang := doc.Language
		if lang == "" {
			lang = fallbackLanguage
		}
		caser := cases.Lower(languageTag(lang))
		d.form = func(t common.Term) string {
			return caser.String(util.CollapseSpace(t.Form))
		}
	}

	edges := make([]common.Dependency, 0, len(doc.Dependencies))
	for _, e := range doc.Dependencies {
		if !d.terms.Has(e.Head) || !d.terms.Has(e.Dependent) {
			d.diag.add(MissingHead, e.Dependent, e.Relation, "edge from "+e.Head+" refers to an unknown term")
			continue
		}
		edges = append(edges, e)
	}
	d.graph = depgraph.Build(edges)

	return d
}

func languageTag(lang string) language.Tag {
	if lang == "" {
		return language.Dutch
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Dutch
	}
	return tag
}

func (d *document) term(id string) common.Term {
	t, _ := d.terms.Term(id)
	return t
}

func (d *document) pos(id string) common.POS {
	return d.term(id).POS
}

func (d *document) formOf(id string) string {
	t, ok := d.terms.Term(id)
	if !ok {
		return ""
	}
	return d.form(t)
}

func (d *document) component(id string) Component {
	return Component{ID: id, Form: d.formOf(id), POS: d.pos(id)}
}

// span returns the surface ordered constituent of id without id itself,
// and the phrase of the full constituent.
func (d *document) span(id string) ([]Component, string) {
	ids := d.graph.Constituent(id)
	phrase := depgraph.Phrase(ids, d.terms, d.form)

	var comps []Component
	for _, cid := range depgraph.OrderBySurface(ids, d.terms) {
		if cid == id {
			continue
		}
		comps = append(comps, d.component(cid))
	}
	return comps, phrase
}

// conjuncts returns the coordinated elements below a coordinator.
func (d *document) conjuncts(id string) []depgraph.Arc {
	var out []depgraph.Arc
	for _, a := range d.graph.DepsOf(id) {
		if coordinationRelations.Has(a.Relation) {
			out = append(out, a)
		}
	}
	return out
}

// describe builds a label or property description of id and its span.
func (d *document) describe(id string, kind Kind, mention string) Description {
	if mention == "" {
		mention = id
	}
	comps, phrase := d.span(id)
	return Description{
		ID:          id,
		MentionID:   mention,
		Kind:        kind,
		Form:        d.formOf(id),
		POS:         d.pos(id),
		Constituent: comps,
		Phrase:      phrase,
	}
}

// dependent builds a secondary contribution from an arc below an event.
func (d *document) dependent(a depgraph.Arc, marker string) Dependent {
	dep := Dependent{
		Component: d.component(a.ID),
		Relation:  a.Relation,
		Marker:    marker,
		Phrase:    d.formOf(a.ID),
	}
	if d.graph.HasDeps(a.ID) {
		dep.Constituent, dep.Phrase = d.span(a.ID)
	}
	if dep.POS == common.POSVG {
		for _, c := range d.conjuncts(a.ID) {
			dep.Conjuncts = append(dep.Conjuncts, d.component(c.ID))
		}
	}
	return dep
}
