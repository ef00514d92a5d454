// Package config provides configuration loading for the bindgen command.
//
// Values come from, in increasing precedence: defaults, a YAML file,
// .env files and BINDGEN_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bindgen/internal/logging"
	"bindgen/internal/resolve"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BINDGEN_"

// Config is the root configuration structure.
type Config struct {
	// Inputs are declaration files or directories of them.
	Inputs []string `yaml:"inputs"`
	// Packages are Go package patterns read by the analyze frontend.
	Packages []string `yaml:"packages"`
	// Parallelism bounds concurrent file parsing. Zero or less means one
	// parser per file.
	Parallelism int `yaml:"parallelism"`

	Resolve ResolveConfig `yaml:"resolve"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ResolveConfig configures the resolver.
type ResolveConfig struct {
	FailOnWarnings bool `yaml:"fail_on_warnings"`
	MaxSuggestions int  `yaml:"max_suggestions"`
}

// OutputConfig configures emitters.
type OutputConfig struct {
	Dir          string   `yaml:"dir"`
	Emitters     []string `yaml:"emitters"`
	ImportPrefix string   `yaml:"import_prefix"` // Go emitter import path prefix
	RunID        bool     `yaml:"run_id"`        // record the run id in manifests
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Resolve: ResolveConfig{
			MaxSuggestions: resolve.DefaultConfig().MaxSuggestions,
		},
		Output: OutputConfig{
			Dir:      "./generated",
			Emitters: []string{"go", "manifest"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply. getenv is usually os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := cfg.parse(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	return nil
}

func (c *Config) parse(data []byte) error {
	data = []byte(os.ExpandEnv(string(data)))

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// applyEnv applies BINDGEN_* variables. Variables always override the file.
func (c *Config) applyEnv(getenv func(string) string) error {
	var errs []error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}

	list := func(key string, dst *[]string) {
		if v := getenv(EnvPrefix + key); strings.TrimSpace(v) != "" {
			*dst = splitList(v)
		}
	}

	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(EnvPrefix + key))
		if v == "" {
			return
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}

		*dst = n
	}

	flag := func(key string, dst *bool) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = parseBool(v)
		}
	}

	list("INPUTS", &c.Inputs)
	list("PACKAGES", &c.Packages)
	num("PARALLELISM", &c.Parallelism)

	flag("FAIL_ON_WARNINGS", &c.Resolve.FailOnWarnings)
	num("MAX_SUGGESTIONS", &c.Resolve.MaxSuggestions)

	str("OUTPUT_DIR", &c.Output.Dir)
	list("EMITTERS", &c.Output.Emitters)
	str("IMPORT_PREFIX", &c.Output.ImportPrefix)
	flag("RUN_ID", &c.Output.RunID)

	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	return errors.Join(errs...)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Resolve.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("resolve.max_suggestions must not be negative, got %d", c.Resolve.MaxSuggestions))
	}

	if _, err := logging.New(io.Discard, c.Logging.Level, c.Logging.Format); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

// ResolverConfig converts the resolve section for the resolver.
func (c *Config) ResolverConfig() resolve.Config {
	return resolve.Config{
		FailOnWarnings: c.Resolve.FailOnWarnings,
		MaxSuggestions: c.Resolve.MaxSuggestions,
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string

	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
