package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bindgen/internal/config"
	"bindgen/internal/logging"
)

// app carries state shared by every subcommand.
type app struct {
	getenv func(string) string

	configFile string
	envFiles   []string
	packages   []string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "bindgen",
		Short: "Resolve component type declarations and generate bindings",
		Long: `bindgen links the type declarations of independently compiled components
into one resolved graph and renders bindings from it.

Declarations come from YAML files (one component per file) or from Go
packages (--go). Every problem of a run is reported at once.

Examples:
  bindgen resolve decls/               # check declarations, print a summary
  bindgen generate decls/ --out gen    # write Go bindings and manifests
  bindgen analyze --go ./geo           # print YAML declarations for a Go package
  bindgen watch decls/                 # regenerate on every change`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file path")
	flags.StringSliceVar(&a.envFiles, "env-file", []string{".env"}, "env files loaded before the config")
	flags.StringSliceVar(&a.packages, "go", nil, "Go package patterns to analyze")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		newResolveCmd(a),
		newGenerateCmd(a),
		newWatchCmd(a),
		newAnalyzeCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads configuration and builds the logger. Flags win over the
// environment, which wins over the config file.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFiles...); err != nil {
		return err
	}

	cfg, err := config.Load(a.configFile, a.getenv)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	if len(a.packages) > 0 {
		cfg.Packages = a.packages
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	a.cfg = cfg
	a.log = log

	return nil
}
