package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/buildinfo"
	"github.com/matzehuels/nodecanvas/pkg/cache"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	scriptOpts
	output   string // output file path; empty writes to stdout
	format   string // dot or svg
	layout   string // pinned or dot
	clusters bool   // draw areas as clusters
	noCache  bool   // bypass the artifact cache
}

// exportCommand creates the export command, which runs a script and exports
// the result through Graphviz.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: formatSVG, layout: dot.LayoutPinned}

	cmd := &cobra.Command{
		Use:   "export [script.yaml]",
		Short: "Run a command script and export the canvas as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			if err := (dot.Options{Layout: opts.layout}).Validate(); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "node placement: pinned (canvas coordinates), dot")
	cmd.Flags().BoolVar(&opts.clusters, "clusters", false, "draw each area as a cluster")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered-export cache")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, path string, opts exportOpts) error {
	g, err := c.execScript(ctx, path, opts.scriptOpts)
	if err != nil {
		return err
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	data, cached, err := exportGraph(ctx, store, g, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Exported %s", opts.format)
	printStats(g, cached)
	printFile(opts.output)
	return nil
}

// exportGraph renders g, reusing a cached artifact when the same snapshot
// was exported with the same options before.
func exportGraph(ctx context.Context, store cache.Cache, g graph.Graph, opts exportOpts) (data []byte, cached bool, err error) {
	logger := loggerFromContext(ctx)

	snap, err := graph.Marshal(g)
	if err != nil {
		return nil, false, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	key := keyer.ArtifactKey(cache.Hash(snap), cache.ArtifactKeyOpts{
		Format:  opts.format,
		Visible: opts.visible,
		Layout:  fmt.Sprintf("%s/clusters=%t", opts.layout, opts.clusters),
	})

	if data, ok, err := store.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "error", err)
	} else if ok {
		logger.Debug("export cache hit", "format", opts.format)
		return data, true, nil
	}

	src := dot.ToDOT(g, dot.Options{Layout: opts.layout, Clusters: opts.clusters})
	data = []byte(src)
	if opts.format == formatSVG {
		spin := newSpinnerWithContext(ctx, "Rendering SVG...")
		spin.Start()
		data, err = dot.RenderSVG(ctx, src)
		cancelled := spin.Cancelled()
		spin.Stop()
		if cancelled {
			return nil, false, fmt.Errorf("render svg: %w", ctx.Err())
		}
		if err != nil {
			return nil, false, fmt.Errorf("render svg: %w", err)
		}
	}

	if err := store.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		logger.Warn("cache write failed", "error", err)
	}
	return data, false, nil
}
