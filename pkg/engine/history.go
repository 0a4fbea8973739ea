package engine

import "github.com/matzehuels/nodecanvas/pkg/graph"

// history is a bounded stack of graph snapshots. Pushing onto a full stack
// evicts the oldest entry. Graphs share unchanged maps, so entries are cheap.
type history struct {
	items []graph.Graph
	limit int
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

func (h *history) push(g graph.Graph) {
	if h.limit <= 0 {
		return
	}
	if len(h.items) == h.limit {
		copy(h.items, h.items[1:])
		h.items = h.items[:len(h.items)-1]
	}
	h.items = append(h.items, g)
}

func (h *history) pop() (graph.Graph, bool) {
	if len(h.items) == 0 {
		return graph.Graph{}, false
	}
	g := h.items[len(h.items)-1]
	h.items[len(h.items)-1] = graph.Graph{}
	h.items = h.items[:len(h.items)-1]
	return g, true
}

func (h *history) clear() {
	clear(h.items)
	h.items = h.items[:0]
}

func (h *history) size() int { return len(h.items) }
