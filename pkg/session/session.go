// Package session keeps independent editing sessions side by side.
//
// A [Registry] maps session ids to engines. Sessions share no state: each
// has its own graph, history and id generator. A [FileStore] saves a
// session's committed graph as a JSON snapshot so the CLI editor can resume
// it later.
//
// # Usage
//
//	reg := session.NewRegistry(engine.Config{Logger: logger})
//	sess, err := reg.Open("", graph.New()) // generated id
//	if err != nil {
//	    return err
//	}
//	res, err := sess.Engine.Apply(ctx, cmds)
//
//	store, err := session.NewFileStore("") // ~/.config/nodecanvas/sessions/
//	err = store.Save(ctx, sess.ID, sess.Engine.Snapshot())
package session

import (
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nodecanvas/pkg/engine"
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Session is one open editing session.
type Session struct {
	ID        string
	Engine    *engine.Engine
	CreatedAt time.Time
}

// Registry holds open sessions. It is safe for concurrent use.
type Registry struct {
	// NewIDs, when set, creates the id generator of each new session.
	// Otherwise sessions use the generator in the engine config.
	NewIDs func() graph.IDGenerator

	mu       sync.RWMutex
	sessions map[string]*Session
	config   engine.Config
	logger   *log.Logger
}

// NewRegistry creates an empty registry. Every session gets its own copy of
// cfg.
func NewRegistry(cfg engine.Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Registry{sessions: make(map[string]*Session), config: cfg, logger: logger}
}

// GenerateID returns a new random session id.
func GenerateID() string {
	return uuid.NewString()
}

// Open creates a session starting from g. An empty id is replaced by a
// generated one.
//
// Fails with SESSION_ALREADY_EXISTS, or with the engine's error when g
// violates the area rules.
func (r *Registry) Open(id string, g graph.Graph) (*Session, error) {
	if id == "" {
		id = GenerateID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; ok {
		return nil, errs.New(errs.ErrCodeSessionAlreadyExists, "session %q already exists", id)
	}

	cfg := r.config
	cfg.Logger = r.logger.With("session", shortID(id))
	if r.NewIDs != nil {
		cfg.Env.IDs = r.NewIDs()
	}
	eng, err := engine.NewWithGraph(g, cfg)
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: id, Engine: eng, CreatedAt: time.Now()}
	r.sessions[id] = sess
	r.logger.Debug("session opened", "id", id, "nodes", g.NodeCount())
	return sess, nil
}

// Get returns an open session. Fails with SESSION_NOT_FOUND.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess, nil
}

// Close removes a session and returns its last committed graph. Fails with
// SESSION_NOT_FOUND.
func (r *Registry) Close(id string) (graph.Graph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return graph.Graph{}, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(r.sessions, id)
	r.logger.Debug("session closed", "id", id)
	return sess.Engine.Snapshot(), nil
}

// List returns the ids of all open sessions in ascending order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
