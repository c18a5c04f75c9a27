package portrait

import (
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/google/go-cmp/cmp"
)

func portraitWith(id string, colabels ...string) *Microportrait {
	p := newMicroportrait(id, common.POSNoun)
	for _, c := range colabels {
		p.AddColabel(c)
	}
	return p
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		portraits []*Microportrait
		want      []string
	}{
		{
			name:      "no colabels",
			portraits: []*Microportrait{portraitWith("a"), portraitWith("b")},
			want:      []string{"a", "b"},
		},
		{
			name:      "folded portrait removed",
			portraits: []*Microportrait{portraitWith("a"), portraitWith("b", "a")},
			want:      []string{"b"},
		},
		{
			name: "chain keeps the ends",
			portraits: []*Microportrait{
				portraitWith("a", "b"),
				portraitWith("b", "c"),
				portraitWith("c"),
			},
			want: []string{"a", "c"},
		},
		{
			name:      "cycle keeps earliest",
			portraits: []*Microportrait{portraitWith("a", "b"), portraitWith("b", "a")},
			want:      []string{"a"},
		},
		{
			name:      "colabel without portrait",
			portraits: []*Microportrait{portraitWith("a", "x")},
			want:      []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := portraitIDs(dedupe(tt.portraits))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected portraits (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddColabel(t *testing.T) {
	p := portraitWith("a", "b", "b", "a", "", "c")
	if diff := cmp.Diff([]string{"b", "c"}, p.Colabels); diff != "" {
		t.Fatalf("unexpected colabels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, p.Identifiers()); diff != "" {
		t.Fatalf("unexpected identifiers (-want +got):\n%s", diff)
	}
}
