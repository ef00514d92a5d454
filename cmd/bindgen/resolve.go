package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"bindgen/internal/emit"
	"bindgen/internal/graph"
)

func newResolveCmd(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "resolve [files or directories...]",
		Short: "Resolve declarations and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.resolveInputs(cmd.Context(), args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(out, g.Components())

				return nil
			}

			printSummary(out, g)

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the resolved components")

	return cmd
}

// printSummary writes one block per component in dependency order.
func printSummary(w io.Writer, g *graph.Graph) {
	for _, c := range g.Components() {
		version := ""
		if c.Version != "" {
			version = " " + c.Version
		}

		fmt.Fprintf(w, "%s%s\n", c.Name, version)

		for _, id := range c.Types {
			t, _ := g.Type(id)
			fmt.Fprintf(w, "  %-8s %s\n", t.Def.Kind(), t.Name.Name)
		}

		for _, ext := range c.Externals {
			fmt.Fprintf(w, "  %-8s %s -> %s\n", "external", ext.Declared, emit.QualifiedName(g, ext.Target, ext.Declared))
		}

		for _, fn := range c.Functions {
			fmt.Fprintf(w, "  %-8s %s\n", "fn", fn.Name)
		}
	}

	if warnings := g.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(w, "%d warning(s)\n", len(warnings))
	}
}
