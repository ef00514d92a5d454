package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geoYAML = `
component: geo
version: 1.0.0
types:
  - name: Point
    record:
      lat: f64
      lon: f64
`

const routingYAML = `
component: routing
externals:
  - Point
types:
  - name: Route
    record:
      stops: sequence<Point>
`

func writeDecls(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

// run executes the root command with an empty environment.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd(func(string) string { return "" })
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"))

	err = cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestResolve_Summary(t *testing.T) {
	dir := writeDecls(t, map[string]string{"geo.yaml": geoYAML, "routing.yaml": routingYAML})

	out, _, err := run(t, "resolve", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "geo 1.0.0\n  record   Point\n")
	assert.Contains(t, out, "routing\n  record   Route\n  external Point -> geo.Point\n")
	assert.Less(t, bytes.Index([]byte(out), []byte("geo")), bytes.Index([]byte(out), []byte("routing")))
}

func TestResolve_Dump(t *testing.T) {
	dir := writeDecls(t, map[string]string{"geo.yaml": geoYAML})

	out, _, err := run(t, "resolve", "--dump", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"geo"`)
	assert.Contains(t, out, "DependsOn")
}

func TestResolve_ReportsDiagnostics(t *testing.T) {
	dir := writeDecls(t, map[string]string{"routing.yaml": routingYAML})

	_, stderr, err := run(t, "resolve", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution failed with 1 error(s)")
	assert.Contains(t, stderr, "UnresolvedExternalType")
}

func TestResolve_DuplicateComponent(t *testing.T) {
	dir := writeDecls(t, map[string]string{"a.yaml": geoYAML, "b.yaml": geoYAML})

	_, stderr, err := run(t, "resolve", dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "DuplicateComponent")
}

func TestResolve_NoInput(t *testing.T) {
	_, _, err := run(t, "resolve")
	require.ErrorIs(t, err, errNoInput)
}

func TestGenerate(t *testing.T) {
	dir := writeDecls(t, map[string]string{"geo.yaml": geoYAML, "routing.yaml": routingYAML})
	out := filepath.Join(t.TempDir(), "gen")

	_, _, err := run(t, "generate", dir, "--out", out)
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(out, "go", "routing", "routing.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package routing")
	assert.Contains(t, string(src), `"geo"`)

	_, err = os.Stat(filepath.Join(out, "manifest", "geo", "geo.yaml"))
	require.NoError(t, err)
}

func TestGenerate_SelectedEmitter(t *testing.T) {
	dir := writeDecls(t, map[string]string{"geo.yaml": geoYAML})
	out := filepath.Join(t.TempDir(), "gen")

	_, _, err := run(t, "generate", dir, "--out", out, "--emit", "manifest")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "go"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = run(t, "generate", dir, "--out", out, "--emit", "rust")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown emitter "rust"`)
}

func TestAnalyze_WritesDeclarations(t *testing.T) {
	out := filepath.Join(t.TempDir(), "decls")

	_, _, err := run(t, "analyze", "bindgen/examples/geo", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "geo.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "component: geo")
	assert.Contains(t, string(data), "name: Point")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bindgen dev")
}

func TestInvalidLogLevel(t *testing.T) {
	var errOut bytes.Buffer

	cmd := newRootCmd(func(string) string { return "" })
	cmd.SetErr(&errOut)
	cmd.SetOut(&errOut)
	cmd.SetArgs([]string{"version", "--log-level", "loud", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestWatchDirs(t *testing.T) {
	dir := writeDecls(t, map[string]string{"geo.yaml": geoYAML})

	dirs, err := watchDirs([]string{dir, filepath.Join(dir, "geo.yaml")})
	require.NoError(t, err)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, dirs)

	_, err = watchDirs([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "decls/geo.yaml", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "decls/geo.YML", Op: fsnotify.Create}))
	assert.True(t, relevant(fsnotify.Event{Name: "decls/geo.yaml", Op: fsnotify.Remove}))
	assert.False(t, relevant(fsnotify.Event{Name: "decls/geo.yaml", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "decls/geo.go", Op: fsnotify.Write}))
}

func TestResolve_ParseError(t *testing.T) {
	dir := writeDecls(t, map[string]string{"bad.yaml": "component: geo\ntypes: 3\n"})

	_, stderr, err := run(t, "resolve", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
	assert.NotContains(t, stderr, "[Unknown]")
}
