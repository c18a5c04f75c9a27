package depgraph

import (
	"reflect"
	"sort"
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
)

func testTerms() *TermTable {
	return NewTermTable([]common.Term{
		{ID: "t1", Lemma: "de", Form: "De", POS: common.POSDet, Offset: 0},
		{ID: "t2", Lemma: "oud", Form: "oude", POS: common.POSAdj, Offset: 3},
		{ID: "t3", Lemma: "man", Form: "man", POS: common.POSNoun, Offset: 8},
		{ID: "t4", Lemma: "in", Form: "in", POS: common.POSPrep, Offset: 12},
		{ID: "t5", Lemma: "stad", Form: "stad", POS: common.POSNoun, Offset: 15},
	})
}

func TestConstituent(t *testing.T) {
	tests := []struct {
		name  string
		edges []common.Dependency
		head  string
		want  []string
	}{
		{
			name: "leaf",
			head: "t3",
			want: []string{"t3"},
		},
		{
			name: "nested",
			edges: []common.Dependency{
				{Head: "t3", Dependent: "t1", Relation: common.RelDeterminer},
				{Head: "t3", Dependent: "t4", Relation: common.RelModifier},
				{Head: "t4", Dependent: "t5", Relation: common.RelObject},
			},
			head: "t3",
			want: []string{"t1", "t3", "t4", "t5"},
		},
		{
			name: "cycle",
			edges: []common.Dependency{
				{Head: "t3", Dependent: "t4", Relation: common.RelModifier},
				{Head: "t4", Dependent: "t5", Relation: common.RelObject},
				{Head: "t5", Dependent: "t3", Relation: common.RelModifier},
			},
			head: "t4",
			want: []string{"t3", "t4", "t5"},
		},
		{
			name: "self loop",
			edges: []common.Dependency{
				{Head: "t3", Dependent: "t3", Relation: common.RelModifier},
			},
			head: "t3",
			want: []string{"t3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.edges).Constituent(tt.head)
			if got[0] != tt.head {
				t.Fatalf("constituent must start with its head, got %v", got)
			}
			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Constituent(%s) = %v, want %v", tt.head, got, tt.want)
			}
		})
	}
}

func TestConstituent_DepthBound(t *testing.T) {
	var edges []common.Dependency
	for i := 0; i < MaxDepth*2; i++ {
		edges = append(edges, common.Dependency{
			Head:      string(rune('a' + i%26)) + string(rune('0'+i/26)),
			Dependent: string(rune('a' + (i+1)%26)) + string(rune('0'+(i+1)/26)),
			Relation:  common.RelModifier,
		})
	}
	got := Build(edges).Constituent("a0")
	if len(got) > MaxDepth+1 {
		t.Fatalf("expected traversal bounded by %d, got %d terms", MaxDepth, len(got))
	}
}

func TestOrderBySurface(t *testing.T) {
	terms := testTerms()
	got := OrderBySurface([]string{"t5", "tX", "t1", "t3"}, terms)
	want := []string{"t1", "t3", "t5", "tX"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OrderBySurface = %v, want %v", got, want)
	}
}

func TestPhrase(t *testing.T) {
	terms := testTerms()
	ids := []string{"t5", "t2", "t4", "t1", "t3"}

	if got := Phrase(ids, terms, nil); got != "de oud man in stad" {
		t.Fatalf("lemma phrase = %q", got)
	}
	form := func(t common.Term) string { return t.Form }
	if got := Phrase(ids, terms, form); got != "De oude man in stad" {
		t.Fatalf("surface phrase = %q", got)
	}
}
