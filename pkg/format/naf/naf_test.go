package naf

import (
	"reflect"
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<NAF xml:lang="nl" version="v3">
  <nafHeader>
    <public publicId="wiki_12" uri="http://example.org/wiki_12"/>
  </nafHeader>
  <text>
    <wf id="w1" offset="0" length="3" sent="1">Jan</wf>
    <wf id="w2" offset="4" length="6" sent="1">Jansen</wf>
    <wf id="w3" offset="11" length="3" sent="1">eet</wf>
    <wf id="w4" offset="15" length="1" sent="1">.</wf>
    <wf id="w5" offset="17" length="3" sent="2">Hij</wf>
    <wf id="w6" offset="21" length="5" sent="2">slaapt</wf>
  </text>
  <terms>
    <term id="t1" lemma="Jan" pos="name"><span><target id="w1"/></span></term>
    <term id="t2" lemma="Jansen" pos="name"><span><target id="w2"/></span></term>
    <term id="t3" lemma="eten" pos="verb"><span><target id="w3"/></span></term>
    <term id="t4" lemma="." pos="punct"><span><target id="w4"/></span></term>
    <term id="t5" lemma="hij" pos="pron"><span><target id="w5"/></span></term>
    <term id="t6" lemma="slapen" pos="verb"><span><target id="w6"/></span></term>
  </terms>
  <deps>
    <!--mwp/mwp(Jansen,Jan)-->
    <dep from="t2" to="t1" rfunc="mwp/mwp"/>
    <dep from="t3" to="t2" rfunc="hd/su"/>
    <dep from="t3" to="t4" rfunc="-- / --"/>
    <dep from="t6" to="t5" rfunc="hd/su"/>
  </deps>
  <coreferences>
    <coref id="co1" type="entity">
      <span><target id="t1"/><target id="t2" head="yes"/></span>
      <span><target id="t5"/></span>
    </coref>
    <coref id="co2" type="event">
      <span><target id="t3" head="yes"/></span>
    </coref>
  </coreferences>
</NAF>`

func TestDecode(t *testing.T) {
	doc, err := Decoder{}.Decode([]byte(sample), "")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if doc.ID != "wiki_12" {
		t.Fatalf("expected id from header, got %q", doc.ID)
	}
	if doc.Language != "nl" {
		t.Fatalf("expected language nl, got %q", doc.Language)
	}
	if len(doc.Terms) != 6 {
		t.Fatalf("expected 6 terms, got %d", len(doc.Terms))
	}

	want := common.Term{ID: "t2", Lemma: "Jansen", Form: "Jansen", POS: common.POSName, Span: []string{"w2"}, Offset: 4, Sentence: 1}
	if !reflect.DeepEqual(doc.Terms[1], want) {
		t.Fatalf("term t2 = %+v, want %+v", doc.Terms[1], want)
	}
	if doc.Terms[4].Sentence != 2 || doc.Terms[4].Offset != 17 {
		t.Fatalf("unexpected position for t5: %+v", doc.Terms[4])
	}

	wantDeps := []common.Dependency{
		{Head: "t2", Dependent: "t1", Relation: common.RelMultiword},
		{Head: "t3", Dependent: "t2", Relation: common.RelSubject},
		{Head: "t3", Dependent: "t4", Relation: common.RelTop},
		{Head: "t6", Dependent: "t5", Relation: common.RelSubject},
	}
	if !reflect.DeepEqual(doc.Dependencies, wantDeps) {
		t.Fatalf("dependencies = %v, want %v", doc.Dependencies, wantDeps)
	}

	if len(doc.Corefs) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(doc.Corefs))
	}
	if got := doc.Corefs[0].Members; !reflect.DeepEqual(got, []string{"t2", "t5"}) {
		t.Fatalf("entity chain members = %v, want [t2 t5]", got)
	}
	if doc.Corefs[1].IsEntity() {
		t.Fatalf("event chain must not count as entity chain")
	}
}

func TestDecode_ExplicitID(t *testing.T) {
	doc, err := Decoder{}.Decode([]byte(sample), "override")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.ID != "override" {
		t.Fatalf("expected explicit id, got %q", doc.ID)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := (Decoder{}).Decode([]byte("<NAF><terms>"), "x"); err == nil {
		t.Fatal("expected error for truncated document")
	}
}
