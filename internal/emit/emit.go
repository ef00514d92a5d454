package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"bindgen/internal/graph"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Emitter renders one component of a resolved graph.
type Emitter interface {
	// Name identifies the emitter, e.g. "go".
	Name() string
	// FileExtension is appended to the component name, e.g. ".go".
	FileExtension() string
	// Emit renders component. It must not modify g.
	Emit(g *graph.Graph, component string) ([]byte, error)
}

// File is the output of one emitter for one component.
type File struct {
	Emitter   string
	Component string
	// Filename is relative to the emitter's output directory.
	Filename string
	Content  []byte
}

// Set is an explicit collection of emitters.
type Set struct {
	emitters map[string]Emitter
}

// NewSet creates a Set. Emitter names must be unique.
func NewSet(emitters ...Emitter) (*Set, error) {
	s := &Set{emitters: make(map[string]Emitter, len(emitters))}

	for _, e := range emitters {
		if _, dup := s.emitters[e.Name()]; dup {
			return nil, fmt.Errorf("emitter %q registered twice", e.Name())
		}

		s.emitters[e.Name()] = e
	}

	return s, nil
}

// Get returns the emitter named name.
func (s *Set) Get(name string) (Emitter, bool) {
	e, ok := s.emitters[name]
	return e, ok
}

// Names returns the emitter names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.emitters))
	for n := range s.emitters {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// EmitAll runs the named emitters (all when names is empty) over every
// component of g. Components are rendered concurrently; the result is
// ordered by emitter name, then component dependency order.
func (s *Set) EmitAll(ctx context.Context, g *graph.Graph, names ...string) ([]File, error) {
	if len(names) == 0 {
		names = s.Names()
	}

	var selected []Emitter

	for _, n := range names {
		e, ok := s.emitters[n]
		if !ok {
			return nil, fmt.Errorf("unknown emitter %q (available: %v)", n, s.Names())
		}

		selected = append(selected, e)
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Name() < selected[j].Name()
	})

	order := g.Order()
	files := make([]File, len(selected)*len(order))

	eg, ctx := errgroup.WithContext(ctx)

	for i, e := range selected {
		for j, comp := range order {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				content, err := e.Emit(g, comp)
				if err != nil {
					return fmt.Errorf("%s emitter, component %s: %w", e.Name(), comp, err)
				}

				files[i*len(order)+j] = File{
					Emitter:   e.Name(),
					Component: comp,
					Filename:  filepath.Join(comp, comp+e.FileExtension()),
					Content:   content,
				}

				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

// WriteFiles writes files below outputDir/<emitter>/.
// It creates the directories if they don't exist.
func WriteFiles(files []File, outputDir string) error {
	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Emitter, file.Filename)

		if err := os.MkdirAll(filepath.Dir(outputPath), dirPerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}
