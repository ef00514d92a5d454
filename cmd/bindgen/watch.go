package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// settle is how long the watcher waits for a burst of events to end
// before regenerating.
const settle = 200 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch [files or directories...]",
		Short: "Regenerate bindings whenever declarations change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				a.cfg.Output.Dir = outDir
			}

			inputs := a.cfg.Inputs
			if len(args) > 0 {
				inputs = args
			}

			if len(inputs) == 0 {
				return errNoInput
			}

			return a.watch(cmd.Context(), inputs, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")

	return cmd
}

// watch generates once, then again after every change below inputs,
// until ctx is done. Failed runs are reported and watching continues.
func (a *app) watch(ctx context.Context, inputs []string, diagOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(inputs)
	if err != nil {
		return err
	}

	// Watch directories: editors that save atomically replace the file.
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	a.log.Info().Strs("dirs", dirs).Msg("watching declarations")

	regenerate := func() {
		if err := a.generate(ctx, inputs, diagOut); err != nil {
			a.log.Error().Err(err).Msg("generation failed, waiting for changes")
		}
	}

	regenerate()

	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !relevant(event) {
				continue
			}

			a.log.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("declaration changed")

			timer.Reset(settle)

		case <-timer.C:
			regenerate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			a.log.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

// watchDirs returns the sorted set of directories to watch: directories
// as given, and the parent of every file.
func watchDirs(inputs []string) ([]string, error) {
	seen := make(map[string]bool)

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}

		dir := in
		if !info.IsDir() {
			dir = filepath.Dir(in)
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("absolute path: %w", err)
		}

		seen[abs] = true
	}

	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}

	sort.Strings(dirs)

	return dirs, nil
}

// relevant reports whether event touches a declaration file.
func relevant(event fsnotify.Event) bool {
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext != ".yaml" && ext != ".yml" {
		return false
	}

	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
