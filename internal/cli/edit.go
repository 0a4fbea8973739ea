package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/session"
)

const defaultSessionName = "default"

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	session string // saved session to resume and save to
	from    string // snapshot to start from instead of the saved session
	noSave  bool   // discard the session on exit
}

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	opts := editOpts{session: defaultSessionName}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a canvas interactively in the terminal",
		Long: `Open the terminal editor. The canvas is saved as a named session when the
editor exits and resumed the next time the same session is opened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.session, "session", "s", opts.session, "session name")
	cmd.Flags().StringVar(&opts.from, "from", "", "start from a JSON snapshot instead of the saved session")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not save the session on exit")

	cmd.AddCommand(c.editListCommand())

	return cmd
}

// editListCommand creates the "edit list" subcommand.
func (c *CLI) editListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore()
			if err != nil {
				return err
			}
			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No saved sessions")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, opts editOpts) error {
	logger := loggerFromContext(ctx)

	store, err := sessionStore()
	if err != nil {
		return err
	}

	start := graph.New()
	if opts.from != "" {
		if start, err = graph.ReadSnapshotFile(opts.from); err != nil {
			return err
		}
	} else {
		saved, ok, err := store.Load(ctx, opts.session)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if ok {
			start = saved
			logger.Debug("resumed session", "name", opts.session, "nodes", saved.NodeCount())
		}
	}

	cfg, err := c.engineConfig()
	if err != nil {
		return err
	}
	reg := session.NewRegistry(cfg)
	sess, err := reg.Open(opts.session, start)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	model := newEditorModel(ctx, sess.Engine, opts.session)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	final, err := reg.Close(sess.ID)
	if err != nil {
		return err
	}
	if opts.noSave {
		return nil
	}
	if err := store.Save(ctx, opts.session, final); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printSuccess("Saved session %s", StyleHighlight.Render(opts.session))
	printStats(final, false)
	return nil
}

// sessionStore opens the saved-session directory under the config dir.
func sessionStore() (*session.FileStore, error) {
	dir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}
	return session.NewFileStore(filepath.Join(dir, "sessions"))
}
