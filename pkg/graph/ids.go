package graph

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator mints fresh identifiers for nodes, edges and areas created by
// commands. Implementations must be safe for concurrent use.
type IDGenerator interface {
	NodeID() NodeID
	EdgeID() EdgeID
	AreaID() AreaID
}

// UUIDGenerator generates random UUID-based identifiers.
type UUIDGenerator struct{}

// NodeID implements IDGenerator.
func (UUIDGenerator) NodeID() NodeID { return NodeID("node-" + uuid.NewString()) }

// EdgeID implements IDGenerator.
func (UUIDGenerator) EdgeID() EdgeID { return EdgeID("edge-" + uuid.NewString()) }

// AreaID implements IDGenerator.
func (UUIDGenerator) AreaID() AreaID { return AreaID("area-" + uuid.NewString()) }

// SequentialGenerator generates "node-1", "edge-1", "area-1" style ids.
// Counters are independent per kind. Useful for scripts and tests that need
// reproducible output.
type SequentialGenerator struct {
	mu                  sync.Mutex
	nodes, edges, areas int
}

// NewSequentialGenerator returns a generator starting at 1.
func NewSequentialGenerator() *SequentialGenerator { return &SequentialGenerator{} }

// NodeID implements IDGenerator.
func (s *SequentialGenerator) NodeID() NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes++
	return NodeID(fmt.Sprintf("node-%d", s.nodes))
}

// EdgeID implements IDGenerator.
func (s *SequentialGenerator) EdgeID() EdgeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges++
	return EdgeID(fmt.Sprintf("edge-%d", s.edges))
}

// AreaID implements IDGenerator.
func (s *SequentialGenerator) AreaID() AreaID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.areas++
	return AreaID(fmt.Sprintf("area-%d", s.areas))
}
