package graph

import (
	"maps"
	"reflect"
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// NodeID identifies a node. Node, edge and area identifiers are distinct
// types so one can never be passed where another is expected.
type NodeID string

// EdgeID identifies an edge.
type EdgeID string

// AreaID identifies an area.
type AreaID string

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
// Metadata is treated as immutable once it is part of a Graph: CRUD
// operations store a shallow copy.
type Metadata map[string]any

// NodeKind describes what a node represents on the canvas.
type NodeKind string

// Node kinds.
const (
	KindText  NodeKind = "text"
	KindFile  NodeKind = "file"
	KindLink  NodeKind = "link"
	KindGroup NodeKind = "group"
)

// Valid reports whether k is one of the known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindText, KindFile, KindLink, KindGroup:
		return true
	}
	return false
}

// Node is a rectangular item on the canvas.
//
// The zero value is not usable - ID must be non-empty and Bounds must have a
// positive width and height before the node can be added to a Graph.
type Node struct {
	ID       NodeID    // Unique identifier
	Kind     NodeKind  // text, file, link or group (defaults to text)
	Text     string    // Optional text content
	Image    string    // Optional image reference (path or URL), decoded elsewhere
	Bounds   geom.Rect // Position and size on the canvas
	Meta     Metadata  // Arbitrary key-value metadata
	Markdown bool      // Text is rendered as markdown
}

// HasText reports whether the node carries text content.
func (n Node) HasText() bool { return n.Text != "" }

// HasImage reports whether the node references an image.
func (n Node) HasImage() bool { return n.Image != "" }

// Equal reports whether n and o hold identical values, including metadata.
func (n Node) Equal(o Node) bool {
	return n.ID == o.ID && n.Kind == o.Kind && n.Text == o.Text && n.Image == o.Image &&
		n.Bounds == o.Bounds && n.Markdown == o.Markdown && metaEqual(n.Meta, o.Meta)
}

// Relation is the semantic kind of an edge.
type Relation string

// Edge relations.
const (
	// RelationNormal is a free-form connection without layout semantics.
	RelationNormal Relation = "normal"
	// RelationParentChild is a hierarchical edge from parent (From) to child
	// (To). Parent-child edges drive tree layout, folding and area components.
	RelationParentChild Relation = "parent-child"
)

// Edge is a directed connection between two nodes.
type Edge struct {
	ID       EdgeID
	From     NodeID
	To       NodeID
	Relation Relation
	// Order is the explicit position of To among its siblings. It is only
	// meaningful for parent-child edges and is nil otherwise.
	Order *int
	Label string
	Meta  Metadata
}

// IsParentChild reports whether the edge carries hierarchy semantics.
func (e Edge) IsParentChild() bool { return e.Relation == RelationParentChild }

// OrderValue returns the explicit sibling order, if any.
func (e Edge) OrderValue() (int, bool) {
	if e.Order == nil {
		return 0, false
	}
	return *e.Order, true
}

// WithOrder returns a copy of e with the explicit sibling order set to o.
func (e Edge) WithOrder(o int) Edge {
	e.Order = &o
	return e
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id NodeID) bool { return e.From == id || e.To == id }

// Equal reports whether e and o hold identical values.
func (e Edge) Equal(o Edge) bool {
	if e.ID != o.ID || e.From != o.From || e.To != o.To || e.Relation != o.Relation || e.Label != o.Label {
		return false
	}
	ev, eok := e.OrderValue()
	ov, ook := o.OrderValue()
	if eok != ook || ev != ov {
		return false
	}
	return metaEqual(e.Meta, o.Meta)
}

// Mode is the editing mode of an area.
type Mode string

// Area modes.
const (
	// ModeTree edits nodes as parent-child hierarchies with automatic layout.
	ModeTree Mode = "tree"
	// ModeDiagram edits nodes as free-form positioned boxes.
	ModeDiagram Mode = "diagram"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeTree || m == ModeDiagram }

// Area is a mode-tagged partition unit. Every node belongs to exactly one
// area; see package area for the validation rules.
type Area struct {
	ID      AreaID
	Members map[NodeID]struct{}
	Mode    Mode
}

// NewArea creates an area holding ids.
func NewArea(id AreaID, mode Mode, ids ...NodeID) Area {
	members := make(map[NodeID]struct{}, len(ids))
	for _, n := range ids {
		members[n] = struct{}{}
	}
	return Area{ID: id, Members: members, Mode: mode}
}

// Contains reports whether id is a member of the area.
func (a Area) Contains(id NodeID) bool {
	_, ok := a.Members[id]
	return ok
}

// MemberIDs returns the member ids in ascending order.
func (a Area) MemberIDs() []NodeID {
	return slices.Sorted(maps.Keys(a.Members))
}

// Len returns the number of members.
func (a Area) Len() int { return len(a.Members) }

// Clone returns a copy of a whose member set can be modified freely.
func (a Area) Clone() Area {
	a.Members = maps.Clone(a.Members)
	if a.Members == nil {
		a.Members = map[NodeID]struct{}{}
	}
	return a
}

// Equal reports whether a and o have the same id, mode and members.
func (a Area) Equal(o Area) bool {
	if a.ID != o.ID || a.Mode != o.Mode || len(a.Members) != len(o.Members) {
		return false
	}
	for id := range a.Members {
		if _, ok := o.Members[id]; !ok {
			return false
		}
	}
	return true
}

// copyMeta creates a shallow copy of metadata to avoid aliasing the
// caller's map.
func copyMeta(m Metadata) Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func metaEqual(a, b Metadata) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
