package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nodecanvas/pkg/graph"
)

func TestApplyCommandWithMetrics(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	scriptPath := filepath.Join(dir, "script.yaml")
	src := "commands:\n  - op: addNode\n  - op: addChildNode\n  - op: setNodeText\n    text: leaf\n"
	if err := os.WriteFile(scriptPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "canvas.json")
	prom := filepath.Join(dir, "nodecanvas.prom")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"apply", scriptPath, "-o", out, "--metrics-file", prom})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	g, err := graph.ReadSnapshotFile(out)
	if err != nil {
		t.Fatalf("ReadSnapshotFile: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %d nodes, %d edges, want 2 and 1", g.NodeCount(), g.EdgeCount())
	}
	n, _ := g.FocusedNode()
	if n.Text != "leaf" {
		t.Errorf("focused text = %q, want leaf", n.Text)
	}

	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), `nodecanvas_batches_total{result="committed"} 3`) {
		t.Errorf("metrics should count three committed batches:\n%s", data)
	}
}

func TestApplyCommandMissingScript(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"apply", filepath.Join(t.TempDir(), "missing.yaml")})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error for a missing script")
	}
}
