package tree

import (
	"fmt"
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

func node(id string, x, y, h float64) graph.Node {
	return graph.Node{ID: graph.NodeID(id), Bounds: geom.Rect{X: x, Y: y, Width: 100, Height: h}}
}

func child(id, from, to string) graph.Edge {
	return graph.Edge{ID: graph.EdgeID(id), From: graph.NodeID(from), To: graph.NodeID(to), Relation: graph.RelationParentChild}
}

func build(t *testing.T, ns []graph.Node, es []graph.Edge) graph.Graph {
	t.Helper()
	g, err := graph.Build(ns, es)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// sample is a root with three children of varying height, one of which has
// two children of its own, plus an unrelated pair.
func sample(t *testing.T) graph.Graph {
	return build(t,
		[]graph.Node{
			node("root", 37, 91, 40),
			node("a", 0, 0, 40), node("b", 0, 0, 80), node("c", 0, 0, 20),
			node("b1", 0, 0, 30), node("b2", 0, 0, 30),
			node("x", 500, 500, 40), node("y", 0, 0, 40),
		},
		[]graph.Edge{
			child("e1", "root", "a"), child("e2", "root", "b"), child("e3", "root", "c"),
			child("e4", "b", "b1"), child("e5", "b", "b2"),
			child("e6", "x", "y"),
		},
	)
}

func TestComponents(t *testing.T) {
	g := sample(t)
	g, _ = graph.CreateNode(g, node("lonely", 0, 0, 10))

	comps := Components(g)
	if len(comps) != 2 {
		t.Fatalf("Components() = %d, want 2", len(comps))
	}
	if comps[0].Nodes[0] != "a" {
		t.Errorf("first component should start at smallest id, got %s", comps[0].Nodes[0])
	}
	if len(comps[0].Nodes) != 6 || len(comps[0].Edges) != 5 {
		t.Errorf("component 0 = %d nodes, %d edges", len(comps[0].Nodes), len(comps[0].Edges))
	}
	for _, c := range comps {
		if c.Contains("lonely") {
			t.Error("node without parent-child edges must not be in a component")
		}
	}
}

func TestLayoutPreservesAnchor(t *testing.T) {
	g := Apply(sample(t), nil, Options{})
	root, _ := g.Node("root")
	if root.Bounds.X != 37 || root.Bounds.Y != 91 {
		t.Errorf("root moved to (%v, %v), want (37, 91)", root.Bounds.X, root.Bounds.Y)
	}
	x, _ := g.Node("x")
	if x.Bounds.X != 500 || x.Bounds.Y != 500 {
		t.Errorf("x moved to (%v, %v), want (500, 500)", x.Bounds.X, x.Bounds.Y)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	once := Apply(sample(t), nil, Options{})
	if changed := Layout(once, nil, Options{}); len(changed) != 0 {
		t.Errorf("second layout moved %d nodes: %v", len(changed), changed)
	}
}

func TestLayoutSiblingsDoNotOverlap(t *testing.T) {
	opts := Options{VerticalSpacing: 10}
	g := Apply(sample(t), nil, opts)

	check := func(parent graph.NodeID) {
		kids := g.Children(parent)
		for i := 1; i < len(kids); i++ {
			prev, _ := g.Node(kids[i-1])
			cur, _ := g.Node(kids[i])
			if gap := cur.Bounds.MinY() - prev.Bounds.MaxY(); gap < opts.VerticalSpacing {
				t.Errorf("%s and %s: gap %v < %v", prev.ID, cur.ID, gap, opts.VerticalSpacing)
			}
		}
	}
	check("root")
	check("b")
}

func TestLayoutGeometry(t *testing.T) {
	opts := Options{HorizontalSpacing: 50, VerticalSpacing: 10, RootSpacing: 30}
	g := build(t,
		[]graph.Node{node("p", 0, 0, 40), node("k1", 0, 0, 40), node("k2", 0, 0, 40)},
		[]graph.Edge{child("e1", "p", "k1"), child("e2", "p", "k2")},
	)
	g = Apply(g, nil, opts)

	p, _ := g.Node("p")
	k1, _ := g.Node("k1")
	k2, _ := g.Node("k2")

	if k1.Bounds.X != p.Bounds.MaxX()+50 || k2.Bounds.X != k1.Bounds.X {
		t.Errorf("children x = %v, %v; want %v", k1.Bounds.X, k2.Bounds.X, p.Bounds.MaxX()+50)
	}
	// Children span 90; the parent is centered on it.
	if k1.Bounds.Y != -25 || k2.Bounds.Y != 25 {
		t.Errorf("children y = %v, %v; want -25, 25", k1.Bounds.Y, k2.Bounds.Y)
	}
	if p.Bounds.Center().Y != (k1.Bounds.MinY()+k2.Bounds.MaxY())/2 {
		t.Error("parent not centered on children")
	}
}

func TestLayoutChildOrder(t *testing.T) {
	g := build(t,
		[]graph.Node{node("p", 0, 0, 40), node("k1", 0, 0, 40), node("k2", 0, 0, 40)},
		[]graph.Edge{child("e1", "p", "k1").WithOrder(1), child("e2", "p", "k2").WithOrder(0)},
	)
	g = Apply(g, nil, Options{})
	k1, _ := g.Node("k1")
	k2, _ := g.Node("k2")
	if k2.Bounds.Y >= k1.Bounds.Y {
		t.Errorf("explicit order ignored: k1.y=%v k2.y=%v", k1.Bounds.Y, k2.Bounds.Y)
	}
}

func TestLayoutSeedsLimitScope(t *testing.T) {
	g := sample(t)
	changed := Layout(g, []graph.NodeID{"y"}, Options{})
	for id := range changed {
		if id != "y" {
			t.Errorf("node %s outside the seeded component moved", id)
		}
	}
	if _, ok := changed["y"]; !ok {
		t.Error("y should move next to x")
	}
}

func TestLayoutMultipleRoots(t *testing.T) {
	// c has two parents; the canonical edge names a, leaving b a bare root.
	opts := Options{RootSpacing: 30}
	g := build(t,
		[]graph.Node{node("a", 0, 0, 40), node("b", 0, 200, 40), node("c", 0, 0, 40)},
		[]graph.Edge{child("e1", "a", "c"), child("e2", "b", "c")},
	)
	g = Apply(g, nil, opts)
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	if a.Bounds.Y != 0 || a.Bounds.X != 0 {
		t.Errorf("anchor root moved: %+v", a.Bounds)
	}
	if b.Bounds.Y != a.Bounds.MaxY()+30 || b.Bounds.X != a.Bounds.X {
		t.Errorf("second root = %+v, want stacked below a", b.Bounds)
	}
}

func TestLayoutCycle(t *testing.T) {
	g := build(t,
		[]graph.Node{node("a", 10, 10, 40), node("b", 300, 0, 40), node("c", 600, 0, 40)},
		[]graph.Edge{child("e1", "a", "b"), child("e2", "b", "c"), child("e3", "c", "a")},
	)
	once := Apply(g, nil, Options{})
	a, _ := once.Node("a")
	if a.Bounds.X != 10 || a.Bounds.Y != 10 {
		t.Errorf("synthetic root moved: %+v", a.Bounds)
	}
	if changed := Layout(once, nil, Options{}); len(changed) != 0 {
		t.Errorf("cycle layout not idempotent: %v", changed)
	}
}

func TestLayoutBranchingCycle(t *testing.T) {
	// Every node has a parent. Once laid out, b sits above a, so a y-first
	// root choice would switch to b on the next pass.
	g := build(t,
		[]graph.Node{node("a", 0, 100, 40), node("b", 300, 0, 40), node("c", 300, 300, 40)},
		[]graph.Edge{child("e1", "a", "b"), child("e2", "a", "c"), child("e3", "c", "a")},
	)
	once := Apply(g, nil, Options{})
	a, _ := once.Node("a")
	b, _ := once.Node("b")
	if a.Bounds.X != 0 || a.Bounds.Y != 100 {
		t.Errorf("synthetic root moved: %+v", a.Bounds)
	}
	if b.Bounds.Y >= a.Bounds.Y {
		t.Fatalf("b.Y = %v, want above a.Y = %v", b.Bounds.Y, a.Bounds.Y)
	}
	if changed := Layout(once, nil, Options{}); len(changed) != 0 {
		t.Errorf("branching cycle layout not idempotent: %v", changed)
	}
}

func TestLayoutDeepChain(t *testing.T) {
	var ns []graph.Node
	var es []graph.Edge
	for i := 0; i < 2000; i++ {
		ns = append(ns, node(fmt.Sprintf("n%05d", i), 0, 0, 10))
		if i > 0 {
			es = append(es, child(fmt.Sprintf("e%05d", i), fmt.Sprintf("n%05d", i-1), fmt.Sprintf("n%05d", i)))
		}
	}
	g := Apply(build(t, ns, es), nil, Options{HorizontalSpacing: 10})
	last, _ := g.Node("n01999")
	if last.Bounds.X != 1999*110 {
		t.Errorf("last.X = %v, want %v", last.Bounds.X, 1999*110)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (Options{HorizontalSpacing: -1}).Validate(); err == nil {
		t.Error("negative spacing should fail")
	}
	var o Options
	o.SetDefaults()
	if o.HorizontalSpacing != DefaultHorizontalSpacing || o.VerticalSpacing != DefaultVerticalSpacing || o.RootSpacing != DefaultRootSpacing {
		t.Errorf("SetDefaults() = %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
