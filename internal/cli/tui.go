package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nodecanvas/pkg/command"
	"github.com/matzehuels/nodecanvas/pkg/engine"
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Editor styles
var (
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	nodeStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	areaStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	inputStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// keyCommands maps keys to the commands they dispatch. History, text entry
// and mode-selected adds are handled by the model itself.
var keyCommands = map[string]command.Command{
	"up":    command.MoveFocus{Dir: geom.Up},
	"down":  command.MoveFocus{Dir: geom.Down},
	"left":  command.MoveFocus{Dir: geom.Left},
	"right": command.MoveFocus{Dir: geom.Right},

	"shift+up":    command.MoveNode{Dir: geom.Up},
	"shift+down":  command.MoveNode{Dir: geom.Down},
	"shift+left":  command.MoveNode{Dir: geom.Left},
	"shift+right": command.MoveNode{Dir: geom.Right},

	"alt+up":    command.NudgeNode{Dir: geom.Up},
	"alt+down":  command.NudgeNode{Dir: geom.Down},
	"alt+left":  command.NudgeNode{Dir: geom.Left},
	"alt+right": command.NudgeNode{Dir: geom.Right},

	"n":         command.AddNode{},
	"tab":       command.AddChildNode{},
	"enter":     command.AddSiblingNode{Position: command.Below},
	"shift+tab": command.AddSiblingNode{Position: command.Above},
	"x":         command.DeleteFocusedNode{},
	"delete":    command.DeleteFocusedNode{},
	" ":         command.ToggleFoldFocusedSubtree{},
	"c":         command.CenterFocusedNode{},
	"T":         command.ConvertFocusedAreaMode{Mode: graph.ModeTree},
	"D":         command.ConvertFocusedAreaMode{Mode: graph.ModeDiagram},
}

// keyModes maps keys to the mode of the area a new node should land in.
var keyModes = map[string]graph.Mode{
	"t": graph.ModeTree,
	"d": graph.ModeDiagram,
}

const editorHelp = "arrows focus  shift+arrows move  alt+arrows nudge  n/t/d add  tab child  enter/shift+tab sibling  e edit  space fold  x delete  u undo  ctrl+r redo  q quit"

// editorModel is the bubbletea model of the terminal editor. It never
// touches the graph directly; every key becomes an engine call.
type editorModel struct {
	ctx     context.Context
	eng     *engine.Engine
	name    string
	res     engine.Result
	status  string
	err     error
	editing bool
	input   []rune
	width   int
}

func newEditorModel(ctx context.Context, eng *engine.Engine, name string) editorModel {
	return editorModel{
		ctx:  ctx,
		eng:  eng,
		name: name,
		res:  engine.Result{Graph: eng.Snapshot(), CanUndo: eng.CanUndo(), CanRedo: eng.CanRedo()},
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.editing {
			return m.updateText(msg), nil
		}
		return m.updateKey(msg.String())
	}
	return m, nil
}

func (m editorModel) updateKey(key string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = ""

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "u":
		m.res = m.eng.Undo(m.ctx)
		return m, nil
	case "ctrl+r":
		m.res = m.eng.Redo(m.ctx)
		return m, nil
	case "e":
		n, ok := m.res.Graph.FocusedNode()
		if !ok {
			m.status = "nothing focused"
			return m, nil
		}
		m.editing = true
		m.input = []rune(n.Text)
		return m, nil
	}

	if mode, ok := keyModes[key]; ok {
		return m.record(m.eng.AddNodeFromModeSelection(m.ctx, mode)), nil
	}
	if cmd, ok := keyCommands[key]; ok {
		return m.record(m.eng.Apply(m.ctx, []command.Command{cmd})), nil
	}
	return m, nil
}

func (m editorModel) updateText(msg tea.KeyMsg) editorModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input = nil
	case tea.KeyEnter:
		m.editing = false
		text := string(m.input)
		m.input = nil
		m = m.record(m.eng.Apply(m.ctx, []command.Command{command.SetNodeText{Text: text}}))
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m
}

// record stores the outcome of an engine call. A rejected command leaves
// the last result in place.
func (m editorModel) record(res engine.Result, err error) editorModel {
	if err != nil {
		m.err = err
		return m
	}
	m.res = res
	if res.Viewport != nil {
		m.status = "viewport: " + res.Viewport.String()
	}
	return m
}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("nodecanvas"))
	if m.name != "" {
		b.WriteString(StyleDim.Render(" · " + m.name))
	}
	b.WriteString("\n\n")

	if m.res.Graph.IsEmpty() {
		b.WriteString(StyleDim.Render("  empty canvas, press n to add a node"))
		b.WriteString("\n")
	} else {
		for _, line := range outline(m.res.Graph) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(areaTable(m.res.Graph))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.editing:
		b.WriteString(inputStyle.Render("text: " + string(m.input) + "▏"))
	case m.err != nil:
		b.WriteString(errorStyle.Render(iconError + " " + errs.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(StyleDim.Render(iconInfo + " " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(historyLine(m.res)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(wrap(editorHelp, m.width)))
	return b.String()
}

// outline renders the visible nodes of every area, trees as indented
// hierarchies and diagrams as positioned lists.
func outline(g graph.Graph) []string {
	visible := fold.Visible(g)
	focused, _ := g.Focused()

	var lines []string
	for _, a := range visible.Areas() {
		lines = append(lines, areaStyle.Render(fmt.Sprintf("%s (%s)", a.ID, a.Mode)))
		members := visibleMembers(visible, a)
		if a.Mode == graph.ModeTree {
			lines = append(lines, treeLines(g, visible, a, members, focused)...)
			continue
		}
		for _, n := range members {
			lines = append(lines, nodeLine(g, n, 1, focused)+StyleDim.Render(fmt.Sprintf("  @%g,%g", n.Bounds.X, n.Bounds.Y)))
		}
	}
	return lines
}

func visibleMembers(visible graph.Graph, a graph.Area) []graph.Node {
	var out []graph.Node
	for _, id := range a.MemberIDs() {
		if n, ok := visible.Node(id); ok {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, graph.ComparePosition)
	return out
}

// treeLines walks the area's hierarchy depth first from its roots. Members
// unreachable from any root (cycles) start their own walk.
func treeLines(g, visible graph.Graph, a graph.Area, members []graph.Node, focused graph.NodeID) []string {
	type frame struct {
		id    graph.NodeID
		depth int
	}
	var lines []string
	seen := map[graph.NodeID]bool{}
	walk := func(root graph.NodeID) {
		stack := []frame{{root, 1}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[f.id] {
				continue
			}
			seen[f.id] = true
			n, _ := visible.Node(f.id)
			lines = append(lines, nodeLine(g, n, f.depth, focused))
			kids := visible.Children(f.id)
			for i := len(kids) - 1; i >= 0; i-- {
				if a.Contains(kids[i]) && !seen[kids[i]] {
					stack = append(stack, frame{kids[i], f.depth + 1})
				}
			}
		}
	}

	for _, n := range members {
		if p, ok := visible.Parent(n.ID); ok && a.Contains(p) {
			continue
		}
		walk(n.ID)
	}
	for _, n := range members {
		if !seen[n.ID] {
			walk(n.ID)
		}
	}
	return lines
}

func nodeLine(g graph.Graph, n graph.Node, depth int, focused graph.NodeID) string {
	text := n.Text
	if text == "" {
		text = StyleDim.Render(string(n.ID))
	}
	marker := "•"
	if g.IsCollapsed(n.ID) {
		marker = "▸"
		text += StyleDim.Render(fmt.Sprintf(" (+%d)", len(fold.Descendants(g, n.ID))))
	}
	line := strings.Repeat("  ", depth) + marker + " " + text
	if n.ID == focused {
		return focusedStyle.Render(line)
	}
	return nodeStyle.Render(line)
}

func areaTable(g graph.Graph) string {
	var rows [][]string
	for _, a := range g.Areas() {
		rows = append(rows, []string{string(a.ID), string(a.Mode), fmt.Sprint(a.Len())})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Area", "Mode", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

func historyLine(res engine.Result) string {
	undo, redo := "-", "-"
	if res.CanUndo {
		undo = "u"
	}
	if res.CanRedo {
		redo = "ctrl+r"
	}
	return fmt.Sprintf("%d nodes · %d edges · undo %s · redo %s",
		res.Graph.NodeCount(), res.Graph.EdgeCount(), undo, redo)
}

// wrap breaks s into lines of at most width columns at spaces. A width of
// zero disables wrapping.
func wrap(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	lineLen := 0
	for _, w := range strings.Split(s, "  ") {
		if lineLen > 0 && lineLen+2+len(w) > width {
			b.WriteString("\n")
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteString("  ")
			lineLen += 2
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
