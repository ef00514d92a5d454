package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bindgen/internal/analyze"
	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/loader"
	"bindgen/internal/registry"
	"bindgen/internal/resolve"
)

// errNoInput is returned when neither files nor packages were given.
var errNoInput = errors.New("no declarations: pass files or directories, set inputs, or use --go")

// resolveInputs loads every declaration source and resolves the run.
// Diagnostics are written to w; the returned error only summarizes them.
func (a *app) resolveInputs(ctx context.Context, args []string, w io.Writer) (*graph.Graph, error) {
	inputs := a.cfg.Inputs
	if len(args) > 0 {
		inputs = args
	}

	if len(inputs) == 0 && len(a.cfg.Packages) == 0 {
		return nil, errNoInput
	}

	reg := registry.New(registry.WithLogger(a.log))

	var diags diagnostic.Diagnostics

	if len(inputs) > 0 {
		paths, err := loader.Expand(inputs)
		if err != nil {
			return nil, fmt.Errorf("reading inputs: %w", err)
		}

		if err := loader.LoadAll(a.log.WithContext(ctx), reg, paths, a.cfg.Parallelism); err != nil {
			var failure *diagnostic.Failure
			if !errors.As(err, &failure) {
				return nil, err
			}

			diags.Merge(failure.Diagnostics)
		}
	}

	if len(a.cfg.Packages) > 0 {
		pkgs, err := analyze.NewAnalyzer(analyze.WithLogger(a.log)).LoadPackages(a.cfg.Packages...)
		if err != nil {
			return nil, err
		}

		for _, c := range analyze.Components(pkgs) {
			if err := reg.Register(c); err != nil {
				diags.Merge(diagnostic.Collect(err))
			}
		}
	}

	if !diags.IsValid() {
		diags.Sort()
		return nil, report(w, diags)
	}

	a.log.Info().Str("run", reg.RunID()).Int("components", reg.Len()).Msg("declarations registered")

	g, err := resolve.NewResolver(reg, a.cfg.ResolverConfig(), resolve.WithLogger(a.log)).Resolve()
	if err != nil {
		return nil, report(w, diagnostic.Collect(err))
	}

	for _, d := range g.Warnings() {
		a.log.Warn().
			Str("component", d.Component).
			Str("type", d.TypeName).
			Stringer("kind", d.Kind).
			Msg(d.Message)
	}

	return g, nil
}

// report prints every diagnostic and returns a summary error.
func report(w io.Writer, diags diagnostic.Diagnostics) error {
	for _, d := range diags.Errors {
		fmt.Fprintln(w, d.String())
	}

	for _, d := range diags.Warnings {
		fmt.Fprintln(w, "warning:", d.String())
	}

	return fmt.Errorf("resolution failed with %d error(s)", len(diags.Errors))
}
