package depgraph

import (
	"reflect"
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
)

func TestBuild_AdjacencyViews(t *testing.T) {
	ix := Build([]common.Dependency{
		{Head: "t3", Dependent: "t1", Relation: common.RelSubject},
		{Head: "t3", Dependent: "t2", Relation: common.RelObject},
		{Head: "t4", Dependent: "t1", Relation: common.RelSubject},
	})

	wantDeps := []Arc{{ID: "t1", Relation: common.RelSubject}, {ID: "t2", Relation: common.RelObject}}
	if got := ix.DepsOf("t3"); !reflect.DeepEqual(got, wantDeps) {
		t.Fatalf("DepsOf(t3) = %v, want %v", got, wantDeps)
	}

	wantHeads := []Arc{{ID: "t3", Relation: common.RelSubject}, {ID: "t4", Relation: common.RelSubject}}
	if got := ix.HeadsOf("t1"); !reflect.DeepEqual(got, wantHeads) {
		t.Fatalf("HeadsOf(t1) = %v, want %v", got, wantHeads)
	}

	if got := ix.DepsOf("t1"); len(got) != 0 {
		t.Fatalf("expected no dependents for t1, got %v", got)
	}
	if ix.HasHeads("t3") {
		t.Fatalf("t3 should be a root")
	}
	if ix.Len() != 3 {
		t.Fatalf("expected 3 edges, got %d", ix.Len())
	}
}

func TestIndex_Relation(t *testing.T) {
	ix := Build([]common.Dependency{{Head: "t2", Dependent: "t1", Relation: common.RelVerbComp}})

	rel, ok := ix.Relation("t2", "t1")
	if !ok || rel != common.RelVerbComp {
		t.Fatalf("Relation(t2, t1) = %q, %v", rel, ok)
	}
	if _, ok := ix.Relation("t1", "t2"); ok {
		t.Fatalf("expected no edge from t1 to t2")
	}
}
