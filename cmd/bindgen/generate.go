package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"bindgen/internal/emit"
	"bindgen/internal/emit/golang"
	"bindgen/internal/emit/manifest"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		outDir   string
		emitters []string
	)

	cmd := &cobra.Command{
		Use:   "generate [files or directories...]",
		Short: "Resolve declarations and write bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				a.cfg.Output.Dir = outDir
			}

			if len(emitters) > 0 {
				a.cfg.Output.Emitters = emitters
			}

			return a.generate(cmd.Context(), args, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().StringSliceVar(&emitters, "emit", nil, "emitters to run (default from config)")

	return cmd
}

// emitters builds the emitter set of the run.
func (a *app) emitters() (*emit.Set, error) {
	var opts []manifest.Option
	if a.cfg.Output.RunID {
		opts = append(opts, manifest.WithRunID())
	}

	return emit.NewSet(
		golang.New(golang.Config{
			ImportPrefix: a.cfg.Output.ImportPrefix,
			DebugDir:     filepath.Join(a.cfg.Output.Dir, "debug"),
		}),
		manifest.New(opts...),
	)
}

func (a *app) generate(ctx context.Context, args []string, diagOut io.Writer) error {
	g, err := a.resolveInputs(ctx, args, diagOut)
	if err != nil {
		return err
	}

	set, err := a.emitters()
	if err != nil {
		return err
	}

	files, err := set.EmitAll(ctx, g, a.cfg.Output.Emitters...)
	if err != nil {
		return err
	}

	if err := emit.WriteFiles(files, a.cfg.Output.Dir); err != nil {
		return err
	}

	a.log.Info().
		Str("run", g.RunID()).
		Str("dir", a.cfg.Output.Dir).
		Int("files", len(files)).
		Msg("bindings generated")

	return nil
}
