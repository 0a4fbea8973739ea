package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/command"
	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	arealayout "github.com/matzehuels/nodecanvas/pkg/layout/area"
	"github.com/matzehuels/nodecanvas/pkg/layout/tree"
	"github.com/matzehuels/nodecanvas/pkg/observability"
)

// Coordinator runs the follow-up stages of a mutation.
//
// The Coordinator is stateless apart from its options, so one value can be
// shared by several engines.
type Coordinator struct {
	opts   Options
	logger *log.Logger
}

// Result is the outcome of a coordinated mutation.
type Result struct {
	// Graph is the mutation's graph after every required stage.
	Graph graph.Graph

	// Viewport is the command's explicit request, or a recenter hint when
	// focus changed.
	Viewport *command.ViewportIntent

	// Stats describes the stages that ran.
	Stats Stats
}

// Stats contains stage execution statistics.
type Stats struct {
	Stages    []string
	TreeMoved int
	AreaMoved int
	TreeTime  time.Duration
	AreaTime  time.Duration
}

// New creates a coordinator. Zero option fields take their defaults.
func New(opts Options) (*Coordinator, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{opts: opts, logger: opts.Logger}, nil
}

// Options returns the coordinator's effective options.
func (c *Coordinator) Options() Options { return c.opts }

// Run applies the stages flagged by m to m.After.
//
// Stages are skipped entirely when m did not change the graph. The context
// is checked before every stage; a cancelled run returns the context error
// and no graph.
func (c *Coordinator) Run(ctx context.Context, m command.Mutation) (Result, error) {
	res := Result{Graph: m.After, Viewport: m.Viewport}

	if m.Effects.Mutated {
		g := m.After
		stages := []struct {
			name string
			on   bool
			run  func(graph.Graph) graph.Graph
		}{
			{StageTree, m.Effects.TreeLayout, func(g graph.Graph) graph.Graph { return c.treeStage(ctx, g, m.Seeds, &res.Stats) }},
			{StageArea, m.Effects.AreaLayout, func(g graph.Graph) graph.Graph { return c.areaStage(ctx, g, m.Seeds, &res.Stats) }},
			{StageFocus, m.Effects.FocusNormalization, fold.Normalize},
		}
		for _, s := range stages {
			if !s.on {
				continue
			}
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			g = s.run(g)
			res.Stats.Stages = append(res.Stats.Stages, s.name)
		}
		res.Graph = g
	}

	if res.Viewport == nil {
		before, _ := m.Before.Focused()
		if after, ok := res.Graph.Focused(); ok && after != before {
			res.Viewport = &command.ViewportIntent{Kind: command.ViewportRecenter, Node: after}
		}
	}
	return res, nil
}

func (c *Coordinator) treeStage(ctx context.Context, g graph.Graph, seeds []graph.NodeID, stats *Stats) graph.Graph {
	start := time.Now()

	inTree := make(map[graph.NodeID]bool)
	for _, a := range g.Areas() {
		if a.Mode != graph.ModeTree {
			continue
		}
		for id := range a.Members {
			inTree[id] = true
		}
	}
	visible := fold.Visible(g).Restrict(func(id graph.NodeID) bool { return inTree[id] })

	var scoped []graph.NodeID
	for _, id := range seeds {
		if visible.HasNode(id) {
			scoped = append(scoped, id)
		}
	}
	if len(scoped) == 0 {
		c.logger.Debug("tree layout skipped", "seeds", len(seeds))
		return g
	}

	observability.Pipeline().OnStageStart(ctx, StageTree, visible.NodeCount())
	bounds := tree.Layout(visible, scoped, c.opts.Tree)
	elapsed := time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, StageTree, len(bounds), elapsed)

	stats.TreeMoved += len(bounds)
	stats.TreeTime += elapsed
	c.logger.Debug("tree layout", "seeds", len(scoped), "moved", len(bounds), "duration", elapsed)
	return g.WithBounds(bounds)
}

func (c *Coordinator) areaStage(ctx context.Context, g graph.Graph, seeds []graph.NodeID, stats *Stats) graph.Graph {
	start := time.Now()

	visible := fold.Visible(g)
	seed, ok := areaSeed(g, visible, seeds)
	if !ok {
		c.logger.Debug("area layout skipped", "seeds", len(seeds))
		return g
	}

	areas := arealayout.Extract(visible, c.opts.Area.Shape)
	origin, ok := arealayout.Find(areas, seed)
	if !ok {
		return g
	}

	observability.Pipeline().OnStageStart(ctx, StageArea, len(areas))
	moves := arealayout.ResolveOverlaps(areas, origin.ID, c.opts.Area)

	moved := 0
	for _, a := range areas {
		v, ok := moves[a.ID]
		if !ok {
			continue
		}
		ids := withHidden(g, a.Members)
		g = g.Translate(ids, v)
		moved += len(ids)
	}
	elapsed := time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, StageArea, moved, elapsed)

	stats.AreaMoved += moved
	stats.AreaTime += elapsed
	c.logger.Debug("area layout", "areas", len(areas), "pushed", len(moves), "duration", elapsed)
	return g
}

// areaSeed picks the first visible seed, falling back to the focused node.
func areaSeed(g, visible graph.Graph, seeds []graph.NodeID) (graph.NodeID, bool) {
	for _, id := range seeds {
		if visible.HasNode(id) {
			return id, true
		}
	}
	if id, ok := g.Focused(); ok && visible.HasNode(id) {
		return id, true
	}
	return "", false
}

// withHidden adds the hidden descendants of collapsed members.
func withHidden(g graph.Graph, members []graph.NodeID) []graph.NodeID {
	out := slices.Clone(members)
	for _, id := range members {
		if g.IsCollapsed(id) {
			out = append(out, fold.Descendants(g, id)...)
		}
	}
	return out
}
