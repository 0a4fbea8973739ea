package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodecanvas/pkg/command"
	"github.com/matzehuels/nodecanvas/pkg/engine"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// focusedRef is the node reference resolved to the focused node at the time
// a step runs.
const focusedRef = "@focused"

// History steps call the engine directly instead of dispatching a command.
const (
	opUndo = "undo"
	opRedo = "redo"
)

// script is a YAML command script:
//
//	commands:
//	  - op: addNode
//	  - op: addChildNode
//	  - op: setNodeText
//	    node: "@focused"
//	    text: hello
//	    height: 60
//	  - op: undo
type script struct {
	Commands []step `yaml:"commands"`
}

// step is one script entry. Only the fields the op needs are read.
type step struct {
	Op       string   `yaml:"op"`
	Node     string   `yaml:"node,omitempty"`
	Nodes    []string `yaml:"nodes,omitempty"`
	Text     string   `yaml:"text,omitempty"`
	Height   float64  `yaml:"height,omitempty"`
	Position string   `yaml:"position,omitempty"`
	Dir      string   `yaml:"dir,omitempty"`
	Mode     string   `yaml:"mode,omitempty"`
	Area     string   `yaml:"area,omitempty"`
}

// readScript parses a script file. "-" reads stdin.
func readScript(path string) (script, error) {
	if path == "-" {
		return parseScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return script{}, err
	}
	defer f.Close()
	s, err := parseScript(f)
	if err != nil {
		return script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseScript(r io.Reader) (script, error) {
	var s script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return script{}, nil
		}
		return script{}, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range s.Commands {
		if st.Op == "" {
			return script{}, fmt.Errorf("command %d: missing op", i+1)
		}
	}
	return s, nil
}

// command converts the step into an engine command, resolving node
// references against g.
func (s step) command(g graph.Graph) (command.Command, error) {
	switch s.Op {
	case "addNode":
		return command.AddNode{}, nil
	case "addChildNode":
		return command.AddChildNode{}, nil
	case "addSiblingNode":
		pos, err := command.ParsePosition(s.Position)
		if err != nil {
			return nil, err
		}
		return command.AddSiblingNode{Position: pos}, nil
	case "moveFocus":
		dir, err := s.direction()
		if err != nil {
			return nil, err
		}
		return command.MoveFocus{Dir: dir}, nil
	case "moveNode":
		dir, err := s.direction()
		if err != nil {
			return nil, err
		}
		return command.MoveNode{Dir: dir}, nil
	case "nudgeNode":
		dir, err := s.direction()
		if err != nil {
			return nil, err
		}
		return command.NudgeNode{Dir: dir}, nil
	case "deleteFocusedNode":
		return command.DeleteFocusedNode{}, nil
	case "setNodeText":
		id, err := resolve(g, s.Node)
		if err != nil {
			return nil, err
		}
		return command.SetNodeText{NodeID: id, Text: s.Text, MeasuredHeight: s.Height}, nil
	case "toggleFoldFocusedSubtree":
		return command.ToggleFoldFocusedSubtree{}, nil
	case "centerFocusedNode":
		return command.CenterFocusedNode{}, nil
	case "convertFocusedAreaMode":
		return command.ConvertFocusedAreaMode{Mode: graph.Mode(s.Mode)}, nil
	case "createArea":
		ids, err := resolveAll(g, s.Nodes)
		if err != nil {
			return nil, err
		}
		return command.CreateArea{ID: graph.AreaID(s.Area), Mode: graph.Mode(s.Mode), NodeIDs: ids}, nil
	case "assignNodesToArea":
		ids, err := resolveAll(g, s.Nodes)
		if err != nil {
			return nil, err
		}
		return command.AssignNodesToArea{NodeIDs: ids, AreaID: graph.AreaID(s.Area)}, nil
	}
	return nil, fmt.Errorf("unknown op %q", s.Op)
}

func (s step) direction() (geom.Direction, error) {
	dir, ok := geom.ParseDirection(s.Dir)
	if !ok {
		return geom.Up, fmt.Errorf("%s: invalid dir %q (must be up, down, left or right)", s.Op, s.Dir)
	}
	return dir, nil
}

// resolve maps a node reference to an id. An empty reference stays empty.
func resolve(g graph.Graph, ref string) (graph.NodeID, error) {
	if ref != focusedRef {
		return graph.NodeID(ref), nil
	}
	id, ok := g.Focused()
	if !ok {
		return "", fmt.Errorf("%s: no node is focused", focusedRef)
	}
	return id, nil
}

func resolveAll(g graph.Graph, refs []string) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, 0, len(refs))
	for _, r := range refs {
		id, err := resolve(g, r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// runScript applies every step as its own batch. It stops at the first
// rejected step; the engine keeps everything committed before it.
func runScript(ctx context.Context, eng *engine.Engine, s script) (engine.Result, error) {
	logger := loggerFromContext(ctx)
	var res engine.Result
	for i, st := range s.Commands {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		switch st.Op {
		case opUndo:
			res = eng.Undo(ctx)
		case opRedo:
			res = eng.Redo(ctx)
		default:
			cmd, err := st.command(eng.Snapshot())
			if err != nil {
				return res, fmt.Errorf("command %d: %w", i+1, err)
			}
			res, err = eng.Apply(ctx, []command.Command{cmd})
			if err != nil {
				return res, fmt.Errorf("command %d (%s): %w", i+1, st.Op, err)
			}
		}
		logger.Debug("step applied", "n", i+1, "op", st.Op, "nodes", res.Graph.NodeCount())
	}
	if len(s.Commands) == 0 {
		res.Graph = eng.Snapshot()
	}
	return res, nil
}
