// Package focus picks the next focused node for directional navigation.
package focus

import (
	"cmp"
	"math"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Scoring weights.
const (
	CrossWeight    = 2.5
	RatioWeight    = 32.0
	CorridorFactor = 0.8
)

// Candidate is a scored navigation target.
type Candidate struct {
	ID    graph.NodeID
	Main  float64 // distance along the direction, always > 0
	Cross float64 // absolute perpendicular distance
	Dist2 float64 // squared center distance
	Score float64
}

// Score computes the navigation score of a candidate whose center lies
// main units ahead and cross units to the side.
func Score(main, cross float64) float64 {
	return main + cross*CrossWeight + (cross/main)*RatioWeight
}

// Candidates scores every node ahead of from in direction dir. Nodes whose
// center is not strictly ahead are excluded.
func Candidates(g graph.Graph, from graph.NodeID, dir geom.Direction) []Candidate {
	origin, ok := g.Node(from)
	if !ok {
		return nil
	}
	c0 := origin.Bounds.Center()
	u := dir.Unit()
	perp := geom.Vector{DX: -u.DY, DY: u.DX}

	var out []Candidate
	for _, n := range g.Nodes() {
		if n.ID == from {
			continue
		}
		d := n.Bounds.Center().Sub(c0)
		main := d.Dot(u)
		if main <= 0 {
			continue
		}
		cross := math.Abs(d.Dot(perp))
		out = append(out, Candidate{
			ID:    n.ID,
			Main:  main,
			Cross: cross,
			Dist2: d.Dot(d),
			Score: Score(main, cross),
		})
	}
	return out
}

// Best returns the winning candidate. Candidates inside the corridor
// (cross <= main*0.8) are preferred; when none is, all candidates compete.
// Ties fall back to squared distance, cross distance and id.
func Best(cands []Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if !inCorridor(c) {
			continue
		}
		if !found || compare(c, best) < 0 {
			best, found = c, true
		}
	}
	if found {
		return best, true
	}
	for _, c := range cands {
		if !found || compare(c, best) < 0 {
			best, found = c, true
		}
	}
	return best, found
}

// Next returns the node focus should move to from the current focus.
//
// An empty graph yields no result. Without a valid focus, the top-left node
// (by position, then id) is returned. When no node lies ahead, the current
// focus is returned unchanged.
func Next(g graph.Graph, dir geom.Direction) (graph.NodeID, bool) {
	if g.IsEmpty() {
		return "", false
	}
	cur, ok := g.Focused()
	if !ok || !g.HasNode(cur) {
		return First(g)
	}
	if c, ok := Best(Candidates(g, cur, dir)); ok {
		return c.ID, true
	}
	return cur, true
}

// First returns the top-most, then left-most node.
func First(g graph.Graph) (graph.NodeID, bool) {
	var best graph.Node
	found := false
	for _, n := range g.Nodes() {
		if !found || graph.ComparePosition(n, best) < 0 {
			best, found = n, true
		}
	}
	return best.ID, found
}

// Nearest returns the node whose center is closest to p, excluding skip.
// Ties go to the smaller id.
func Nearest(g graph.Graph, p geom.Point, skip graph.NodeID) (graph.NodeID, bool) {
	var bestID graph.NodeID
	bestD := math.Inf(1)
	for _, n := range g.Nodes() {
		if n.ID == skip {
			continue
		}
		d := n.Bounds.Center().Sub(p)
		if dd := d.Dot(d); dd < bestD {
			bestID, bestD = n.ID, dd
		}
	}
	return bestID, bestID != ""
}

func inCorridor(c Candidate) bool { return c.Cross <= c.Main*CorridorFactor }

func compare(a, b Candidate) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Dist2, b.Dist2); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Cross, b.Cross); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
