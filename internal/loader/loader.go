package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"bindgen/internal/decl"
	"bindgen/internal/diagnostic"
	"bindgen/internal/registry"
)

// LoadFile loads and parses a YAML declaration file from the given path.
func LoadFile(path string) (*decl.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Parse parses YAML data into a component. Unknown keys are rejected.
func Parse(data []byte) (*decl.Component, error) {
	f, err := ParseFile(data)
	if err != nil {
		return nil, err
	}

	return f.Decl()
}

// ParseFile parses YAML data without converting it.
func ParseFile(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty declaration file")
		}

		return nil, fmt.Errorf("failed to parse declaration YAML: %w", err)
	}

	return &f, nil
}

// Marshal serializes a component to YAML.
func Marshal(c *decl.Component) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(FromComponent(c)); err != nil {
		return nil, fmt.Errorf("failed to marshal component %s: %w", c.Name, err)
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile writes a component to the given path.
func WriteFile(c *decl.Component, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write declaration file %s: %w", path, err)
	}

	return nil
}

// Expand replaces every directory in paths by the YAML files it contains,
// sorted by name. Files are kept as given.
func Expand(paths []string) ([]string, error) {
	var out []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}

		var files []string

		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if e.Type().IsRegular() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}

		sort.Strings(files)
		out = append(out, files...)
	}

	return out, nil
}

// LoadAll parses paths concurrently and registers the components in
// argument order. Parse errors abort the load; registration errors are
// collected and returned together once every component was tried.
//
// The logger is taken from ctx (see zerolog.Ctx).
func LoadAll(ctx context.Context, reg *registry.Registry, paths []string, parallelism int) error {
	log := zerolog.Ctx(ctx)

	comps := make([]*decl.Component, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			c, err := LoadFile(path)
			if err != nil {
				return err
			}

			comps[i] = c

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var diags diagnostic.Diagnostics

	for i, c := range comps {
		if err := reg.Register(c); err != nil {
			diags.Merge(diagnostic.Collect(err))
			continue
		}

		log.Debug().
			Str("path", paths[i]).
			Str("component", c.Name).
			Msg("declarations loaded")
	}

	diags.Sort()

	return diags.Err()
}
