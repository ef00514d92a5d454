package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bindgen/internal/analyze"
	"bindgen/internal/loader"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		outDir string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "analyze [package patterns...]",
		Short: "Convert Go packages into YAML declaration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := append(append([]string(nil), a.cfg.Packages...), args...)
			if len(patterns) == 0 {
				return errors.New("no packages: pass patterns or use --go")
			}

			pkgs, err := analyze.NewAnalyzer(
				analyze.WithLogger(a.log),
				analyze.WithDir(dir),
			).LoadPackages(patterns...)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}

			for _, c := range analyze.Components(pkgs) {
				if outDir != "" {
					path := filepath.Join(outDir, c.Name+".yaml")
					if err := loader.WriteFile(c, path); err != nil {
						return err
					}

					a.log.Info().Str("component", c.Name).Str("path", path).Msg("declarations written")

					continue
				}

				data, err := loader.Marshal(c)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", data)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write one declaration file per package into this directory")
	cmd.Flags().StringVar(&dir, "dir", "", "directory the package patterns are relative to")

	return cmd
}
