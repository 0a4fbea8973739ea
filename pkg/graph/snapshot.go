package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// =============================================================================
// Snapshot - JSON Inspection Format
// =============================================================================

// Snapshot is the JSON form of a Graph. It is used for the CLI's snapshot
// dump and for test fixtures. All slices are sorted by id so the same graph
// always encodes to the same bytes.
type Snapshot struct {
	Nodes     []SnapshotNode `json:"nodes"`
	Edges     []SnapshotEdge `json:"edges"`
	Areas     []SnapshotArea `json:"areas,omitempty"`
	Focused   string         `json:"focused,omitempty"`
	Selected  []string       `json:"selected,omitempty"`
	Collapsed []string       `json:"collapsed,omitempty"`
}

// SnapshotNode is the serialized form of a Node.
type SnapshotNode struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind,omitempty"`
	Text     string         `json:"text,omitempty"`
	Image    string         `json:"image,omitempty"`
	Bounds   geom.Rect      `json:"bounds"`
	Markdown bool           `json:"markdown,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// SnapshotEdge is the serialized form of an Edge.
type SnapshotEdge struct {
	ID       string         `json:"id"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Relation string         `json:"relation,omitempty"`
	Order    *int           `json:"order,omitempty"`
	Label    string         `json:"label,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// SnapshotArea is the serialized form of an Area.
type SnapshotArea struct {
	ID      string   `json:"id"`
	Mode    string   `json:"mode"`
	Members []string `json:"members"`
}

// =============================================================================
// Graph ↔ Snapshot Conversion
// =============================================================================

// FromGraph converts g to its snapshot form.
func FromGraph(g Graph) Snapshot {
	out := Snapshot{
		Nodes: make([]SnapshotNode, 0, g.NodeCount()),
		Edges: make([]SnapshotEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		kind := string(n.Kind)
		if n.Kind == KindText {
			kind = ""
		}
		out.Nodes = append(out.Nodes, SnapshotNode{
			ID:       string(n.ID),
			Kind:     kind,
			Text:     n.Text,
			Image:    n.Image,
			Bounds:   n.Bounds,
			Markdown: n.Markdown,
			Meta:     copyMeta(n.Meta),
		})
	}
	for _, e := range g.Edges() {
		rel := string(e.Relation)
		if e.Relation == RelationNormal {
			rel = ""
		}
		out.Edges = append(out.Edges, SnapshotEdge{
			ID:       string(e.ID),
			From:     string(e.From),
			To:       string(e.To),
			Relation: rel,
			Order:    e.Order,
			Label:    e.Label,
			Meta:     copyMeta(e.Meta),
		})
	}
	for _, a := range g.Areas() {
		out.Areas = append(out.Areas, SnapshotArea{
			ID:      string(a.ID),
			Mode:    string(a.Mode),
			Members: idStrings(a.MemberIDs()),
		})
	}
	if id, ok := g.Focused(); ok {
		out.Focused = string(id)
	}
	out.Selected = idStrings(g.Selected())
	out.Collapsed = idStrings(g.Collapsed())
	return out
}

// ToGraph converts a snapshot back into a Graph. Nodes and edges go through
// CreateNode and CreateEdge, so every structural failure is reported with
// its CRUD code wrapped in INVALID_SNAPSHOT.
func ToGraph(s Snapshot) (Graph, error) {
	g := New()
	var err error
	for _, sn := range s.Nodes {
		n := Node{
			ID:       NodeID(sn.ID),
			Kind:     NodeKind(sn.Kind),
			Text:     sn.Text,
			Image:    sn.Image,
			Bounds:   sn.Bounds,
			Markdown: sn.Markdown,
			Meta:     sn.Meta,
		}
		if n.Kind != "" && !n.Kind.Valid() {
			return Graph{}, errs.New(errs.ErrCodeInvalidSnapshot, "node %q: unknown kind %q", sn.ID, sn.Kind)
		}
		if g, err = CreateNode(g, n); err != nil {
			return Graph{}, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "add node %s", sn.ID)
		}
	}
	for _, se := range s.Edges {
		e := Edge{
			ID:       EdgeID(se.ID),
			From:     NodeID(se.From),
			To:       NodeID(se.To),
			Relation: Relation(se.Relation),
			Order:    se.Order,
			Label:    se.Label,
			Meta:     se.Meta,
		}
		if e.Relation != "" && e.Relation != RelationNormal && e.Relation != RelationParentChild {
			return Graph{}, errs.New(errs.ErrCodeInvalidSnapshot, "edge %q: unknown relation %q", se.ID, se.Relation)
		}
		if g, err = CreateEdge(g, e); err != nil {
			return Graph{}, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "add edge %s→%s", se.From, se.To)
		}
	}
	areas := make([]Area, 0, len(s.Areas))
	for _, sa := range s.Areas {
		mode := Mode(sa.Mode)
		if !mode.Valid() {
			return Graph{}, errs.New(errs.ErrCodeInvalidSnapshot, "area %q: unknown mode %q", sa.ID, sa.Mode)
		}
		ids := make([]NodeID, len(sa.Members))
		for i, m := range sa.Members {
			ids[i] = NodeID(m)
		}
		areas = append(areas, NewArea(AreaID(sa.ID), mode, ids...))
	}
	g = g.WithAreas(areas...)
	g = g.WithFocus(NodeID(s.Focused)).
		WithSelection(nodeIDs(s.Selected)...).
		WithCollapsed(nodeIDs(s.Collapsed)...)
	return g, nil
}

// =============================================================================
// Snapshot I/O
// =============================================================================

// Marshal converts g to indented JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a Graph.
func Unmarshal(data []byte) (Graph, error) {
	return ReadSnapshot(bytes.NewReader(data))
}

// WriteSnapshot writes g as indented JSON to w.
func WriteSnapshot(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteSnapshotFile writes g as JSON to path.
// The file is created with 0644 permissions.
func WriteSnapshotFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(g, f)
}

// ReadSnapshot decodes a JSON snapshot from r.
func ReadSnapshot(r io.Reader) (Graph, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Graph{}, errs.Wrap(errs.ErrCodeInvalidSnapshot, err, "decode")
	}
	return ToGraph(s)
}

// ReadSnapshotFile reads a JSON snapshot file.
func ReadSnapshotFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

func idStrings(ids []NodeID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func nodeIDs(ss []string) []NodeID {
	out := make([]NodeID, len(ss))
	for i, s := range ss {
		out[i] = NodeID(s)
	}
	return out
}
