package area

import (
	"testing"

	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: graph.NodeID(id), Bounds: geom.Rect{Y: float64(i * 50), Width: 10, Height: 10}}
	}
	return out
}

func build(t *testing.T, ns []graph.Node, es []graph.Edge, as ...graph.Area) graph.Graph {
	t.Helper()
	g, err := graph.Build(ns, es, as...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		graph    func(t *testing.T) graph.Graph
		wantCode errs.Code
	}{
		{
			name:  "Empty",
			graph: func(t *testing.T) graph.Graph { return graph.New() },
		},
		{
			name: "Valid",
			graph: func(t *testing.T) graph.Graph {
				return build(t, nodes("a", "b"), nil,
					graph.NewArea("x", graph.ModeTree, "a"),
					graph.NewArea("y", graph.ModeDiagram, "b"))
			},
		},
		{
			name: "NoAreas",
			graph: func(t *testing.T) graph.Graph {
				return build(t, nodes("a"), nil)
			},
			wantCode: errs.ErrCodeAreaDataMissing,
		},
		{
			name: "Unassigned",
			graph: func(t *testing.T) graph.Graph {
				return build(t, nodes("a", "b"), nil, graph.NewArea("x", graph.ModeTree, "a"))
			},
			wantCode: errs.ErrCodeNodeWithoutArea,
		},
		{
			name: "Twice",
			graph: func(t *testing.T) graph.Graph {
				return build(t, nodes("a"), nil,
					graph.NewArea("x", graph.ModeTree, "a"),
					graph.NewArea("y", graph.ModeTree, "a"))
			},
			wantCode: errs.ErrCodeNodeAssignedToMultipleAreas,
		},
		{
			name: "MissingMember",
			graph: func(t *testing.T) graph.Graph {
				return build(t, nodes("a"), nil, graph.NewArea("x", graph.ModeTree, "a", "ghost"))
			},
			wantCode: errs.ErrCodeAreaContainsMissingNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.graph(t))
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errs.Is(err, tt.wantCode) {
				t.Fatalf("Validate() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateEdges(t *testing.T) {
	es := []graph.Edge{{ID: "e", From: "a", To: "b"}}
	same := build(t, nodes("a", "b"), es, graph.NewArea("x", graph.ModeTree, "a", "b"))
	if err := ValidateEdges(same); err != nil {
		t.Errorf("ValidateEdges() error = %v", err)
	}

	cross := build(t, nodes("a", "b"), es,
		graph.NewArea("x", graph.ModeTree, "a"),
		graph.NewArea("y", graph.ModeTree, "b"))
	if err := ValidateEdges(cross); !errs.Is(err, errs.ErrCodeCrossAreaEdgeForbidden) {
		t.Errorf("ValidateEdges() error = %v, want CROSS_AREA_EDGE_FORBIDDEN", err)
	}
}

func TestOfAndFocused(t *testing.T) {
	g := build(t, nodes("a", "b"), nil, graph.NewArea("x", graph.ModeDiagram, "a"))

	a, err := Of(g, "a")
	if err != nil || a.ID != "x" {
		t.Errorf("Of(a) = %v, %v", a.ID, err)
	}
	if _, err := Of(g, "b"); !errs.Is(err, errs.ErrCodeNodeWithoutArea) {
		t.Errorf("Of(b) error = %v", err)
	}
	if _, err := Of(g, "zz"); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("Of(zz) error = %v", err)
	}

	if _, err := Focused(g); !errs.Is(err, errs.ErrCodeFocusedNodeNotFound) {
		t.Errorf("Focused() without focus error = %v", err)
	}
	if _, err := Focused(g.WithFocus("b")); !errs.Is(err, errs.ErrCodeFocusedNodeNotAssignedToArea) {
		t.Errorf("Focused(b) error = %v", err)
	}
	if a, err := Focused(g.WithFocus("a")); err != nil || a.ID != "x" {
		t.Errorf("Focused(a) = %v, %v", a.ID, err)
	}
}

func TestCreate(t *testing.T) {
	base := build(t, nodes("a", "b", "c"), []graph.Edge{{ID: "e", From: "a", To: "b"}},
		graph.NewArea("x", graph.ModeTree, "a", "b", "c"))

	tests := []struct {
		name     string
		id       graph.AreaID
		mode     graph.Mode
		ids      []graph.NodeID
		wantCode errs.Code
	}{
		{"MovesNode", "y", graph.ModeDiagram, []graph.NodeID{"c"}, ""},
		{"MovesConnectedPair", "y", graph.ModeDiagram, []graph.NodeID{"a", "b"}, ""},
		{"EmptyID", "", graph.ModeTree, nil, errs.ErrCodeInvalidAreaID},
		{"BadMode", "y", "grid", nil, errs.ErrCodeModeMismatch},
		{"Duplicate", "x", graph.ModeTree, nil, errs.ErrCodeAreaAlreadyExists},
		{"MissingNode", "y", graph.ModeTree, []graph.NodeID{"ghost"}, errs.ErrCodeAreaContainsMissingNode},
		{"SplitsEdge", "y", graph.ModeTree, []graph.NodeID{"a"}, errs.ErrCodeCrossAreaEdgeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Create(base, tt.id, tt.mode, tt.ids)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("Create() error = %v, want %s", err, tt.wantCode)
				}
				if !got.Equal(base) {
					t.Error("failed Create must return the original graph")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if err := Validate(got); err != nil {
				t.Errorf("result invalid: %v", err)
			}
			a, _ := got.Area(tt.id)
			for _, id := range tt.ids {
				if !a.Contains(id) {
					t.Errorf("new area missing %s", id)
				}
			}
			x, _ := got.Area("x")
			for _, id := range tt.ids {
				if x.Contains(id) {
					t.Errorf("old area still holds %s", id)
				}
			}
		})
	}
}

func TestAssign(t *testing.T) {
	base := build(t, nodes("a", "b"), nil,
		graph.NewArea("x", graph.ModeTree, "a"),
		graph.NewArea("y", graph.ModeDiagram, "b"))

	got, err := Assign(base, []graph.NodeID{"a"}, "y")
	if err != nil {
		t.Fatal(err)
	}
	y, _ := got.Area("y")
	x, _ := got.Area("x")
	if !y.Contains("a") || x.Contains("a") {
		t.Errorf("Assign() areas x=%v y=%v", x.MemberIDs(), y.MemberIDs())
	}
	if x.Len() != 0 {
		t.Error("emptied area should be kept with no members")
	}

	if _, err := Assign(base, []graph.NodeID{"a"}, "nope"); !errs.Is(err, errs.ErrCodeAreaNotFound) {
		t.Errorf("Assign(nope) error = %v", err)
	}
	if _, err := Assign(base, []graph.NodeID{"ghost"}, "y"); !errs.Is(err, errs.ErrCodeAreaContainsMissingNode) {
		t.Errorf("Assign(ghost) error = %v", err)
	}
}

func TestSetModeAndCheckMode(t *testing.T) {
	g := build(t, nodes("a"), nil, graph.NewArea("x", graph.ModeTree, "a"))

	got, err := SetMode(g, "x", graph.ModeDiagram)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := got.Area("x")
	if a.Mode != graph.ModeDiagram {
		t.Errorf("Mode = %s", a.Mode)
	}
	if err := CheckMode(a, graph.ModeTree, "addSiblingNode"); !errs.Is(err, errs.ErrCodeModeMismatch) {
		t.Errorf("CheckMode() error = %v", err)
	}
	if err := CheckMode(a, graph.ModeDiagram, "nudgeNode"); err != nil {
		t.Errorf("CheckMode() error = %v", err)
	}
	if _, err := SetMode(g, "nope", graph.ModeTree); !errs.Is(err, errs.ErrCodeAreaNotFound) {
		t.Errorf("SetMode(nope) error = %v", err)
	}
}
