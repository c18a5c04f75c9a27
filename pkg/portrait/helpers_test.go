package portrait

import (
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
)

// docBuilder assembles small parses. Terms are placed ten characters
// apart in the order they are added.
type docBuilder struct {
	doc common.Document
}

func newDoc(id string) *docBuilder {
	return &docBuilder{doc: common.Document{ID: id}}
}

func (b *docBuilder) term(id, lemma string, pos common.POS) *docBuilder {
	return b.termForm(id, lemma, lemma, pos)
}

func (b *docBuilder) termForm(id, lemma, form string, pos common.POS) *docBuilder {
	b.doc.Terms = append(b.doc.Terms, common.Term{
		ID:     id,
		Lemma:  lemma,
		Form:   form,
		POS:    pos,
		Offset: len(b.doc.Terms) * 10,
	})
	return b
}

func (b *docBuilder) dep(head string, rel common.Relation, dependent string) *docBuilder {
	b.doc.Dependencies = append(b.doc.Dependencies, common.Dependency{Head: head, Dependent: dependent, Relation: rel})
	return b
}

func (b *docBuilder) coref(members ...string) *docBuilder {
	b.doc.Corefs = append(b.doc.Corefs, common.CorefChain{Members: members})
	return b
}

func (b *docBuilder) build() *common.Document {
	return &b.doc
}

func extract(t *testing.T, doc *common.Document, params NewExtractorClientParams) *Result {
	t.Helper()
	client, err := NewExtractorClient(params)
	if err != nil {
		t.Fatalf("NewExtractorClient failed: %v", err)
	}
	res, err := client.Extract(doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return res
}

func mustPortrait(t *testing.T, res *Result, id string) *Microportrait {
	t.Helper()
	p := res.Portrait(id)
	if p == nil {
		t.Fatalf("no portrait for %s, have %v", id, portraitIDs(res.Portraits))
	}
	return p
}

func portraitIDs(portraits []*Microportrait) []string {
	ids := make([]string, 0, len(portraits))
	for _, p := range portraits {
		ids = append(ids, p.ID)
	}
	return ids
}

func texts(descs []Description) []string {
	out := make([]string, 0, len(descs))
	for _, d := range descs {
		out = append(out, d.Text())
	}
	return out
}

func hasDiagnostic(res *Result, kind DiagnosticKind, termID string) bool {
	for _, d := range res.Diagnostics {
		if d.Kind == kind && d.TermID == termID {
			return true
		}
	}
	return false
}
