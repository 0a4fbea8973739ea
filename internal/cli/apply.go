package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/engine"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// scriptOpts are the flags shared by commands that run a script.
type scriptOpts struct {
	from    string // starting snapshot; empty starts from an empty canvas
	visible bool   // drop nodes hidden by folding from the output
}

func (o *scriptOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.from, "from", "", "start from a JSON snapshot instead of an empty canvas")
	cmd.Flags().BoolVar(&o.visible, "visible", false, "output only nodes not hidden by folding")
}

// applyOpts holds the command-line flags for the apply command.
type applyOpts struct {
	scriptOpts
	output string // output file path; empty writes to stdout
}

// applyCommand creates the apply command, which runs a script and writes the
// resulting snapshot.
func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply [script.yaml]",
		Short: "Run a command script and write the resulting snapshot",
		Long: `Run a YAML command script through an editing engine and write the final
graph as a JSON snapshot. Use "-" to read the script from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, path string, opts applyOpts) error {
	g, err := c.execScript(ctx, path, opts.scriptOpts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		return graph.WriteSnapshot(g, os.Stdout)
	}
	if err := graph.WriteSnapshotFile(g, opts.output); err != nil {
		return err
	}
	printSuccess("Applied %s", path)
	printStats(g, false)
	printFile(opts.output)
	return nil
}

// execScript builds an engine, runs the script and returns the graph to
// output.
func (c *CLI) execScript(ctx context.Context, path string, opts scriptOpts) (graph.Graph, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := readScript(path)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("read script: %w", err)
	}

	cfg, err := c.engineConfig()
	if err != nil {
		return graph.Graph{}, err
	}

	start := graph.New()
	if opts.from != "" {
		if start, err = graph.ReadSnapshotFile(opts.from); err != nil {
			return graph.Graph{}, err
		}
	}
	eng, err := engine.NewWithGraph(start, cfg)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("start engine: %w", err)
	}

	if _, err := runScript(ctx, eng, s); err != nil {
		return graph.Graph{}, err
	}
	prog.done(fmt.Sprintf("Applied %d commands", len(s.Commands)))

	if opts.visible {
		return eng.Visible(), nil
	}
	return eng.Snapshot(), nil
}
