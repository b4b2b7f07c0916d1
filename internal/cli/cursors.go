package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scopeplot/pkg/config"
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/render/cursorgraph"
)

func (c *CLI) cursorsCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "cursors",
		Short: "Inspect and persist cursor layouts",
		Long: `Inspect the cursors of the session file or of a stored layout, draw their
reference graph, and save or load layouts in the configured store.`,
	}
	cmd.PersistentFlags().StringVar(&backend, "store", "", "layout store: file, redis or mongo (default from config)")

	cmd.AddCommand(c.cursorsListCommand(&backend))
	cmd.AddCommand(c.cursorsGraphCommand(&backend))
	cmd.AddCommand(c.cursorsLayoutsCommand(&backend))
	cmd.AddCommand(c.cursorsSaveCommand(&backend))
	cmd.AddCommand(c.cursorsLoadCommand(&backend))
	cmd.AddCommand(c.cursorsDeleteCommand(&backend))
	return cmd
}

// layoutFor returns the stored layout named by args, or the session file's
// cursors when args is empty.
func (c *CLI) layoutFor(ctx context.Context, backend string, args []string) (cursor.Layout, error) {
	cfg, err := c.loadConfig(nil)
	if err != nil {
		return cursor.Layout{}, err
	}
	if len(args) == 0 {
		return cfg.Layout(), nil
	}
	st, err := c.openStore(ctx, cfg, backend)
	if err != nil {
		return cursor.Layout{}, err
	}
	defer st.Close()
	return st.Load(ctx, args[0])
}

func (c *CLI) cursorsListCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [layout]",
		Short: "Print cursors as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.layoutFor(cmd.Context(), *backend, args)
			if err != nil {
				return err
			}
			if len(l.Cursors) == 0 {
				printInfo("No cursors in %s", l.Name)
				return nil
			}
			fmt.Println(cursorTable(l.Cursors))
			return nil
		},
	}
}

func (c *CLI) cursorsGraphCommand(backend *string) *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)
	cmd := &cobra.Command{
		Use:   "graph [layout]",
		Short: "Draw the cursor reference graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.layoutFor(cmd.Context(), *backend, args)
			if err != nil {
				return err
			}
			dot := cursorgraph.ToDOT(l.Cursors, cursorgraph.Options{Detailed: detailed})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case formatSVG:
				if data, err = cursorgraph.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown graph format %q (want dot or svg)", format)
			}

			if output == "" || output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show position and delta in nodes")
	return cmd
}

func (c *CLI) cursorsLayoutsCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx, cfg, *backend)
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No stored layouts")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func (c *CLI) cursorsSaveCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Store the session file's cursors under name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			l, err := normalizeLayout(cfg, args[0])
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx, cfg, *backend)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(ctx, l); err != nil {
				return err
			}
			printSuccess("Saved %d cursors as %s", len(l.Cursors), StyleValue.Render(l.Name))
			return nil
		},
	}
}

// normalizeLayout runs the configured cursors through a graph so stored
// positions honour every reference.
func normalizeLayout(cfg config.Config, name string) (cursor.Layout, error) {
	g := cursor.NewGraph()
	if err := g.Restore(cfg.Layout()); err != nil {
		return cursor.Layout{}, err
	}
	return g.Layout(name), nil
}

func (c *CLI) cursorsLoadCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name>",
		Short: "Print a stored layout as session-file TOML",
		Long: `Print a stored layout as [[cursors]] tables that can be pasted into the
session file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.layoutFor(cmd.Context(), *backend, args)
			if err != nil {
				return err
			}
			return toml.NewEncoder(os.Stdout).Encode(struct {
				Cursors []cursor.Record `toml:"cursors"`
			}{l.Cursors})
		},
	}
}

func (c *CLI) cursorsDeleteCommand(backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx, cfg, *backend)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
