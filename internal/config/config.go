// Package config loads slicetrait's layered configuration: built-in
// defaults, then slicetrait.yaml, then SLICETRAIT_* environment variables,
// then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"slicetrait/trait"
)

// Defaults.
const (
	DefaultFile     = "slicetrait.yaml"
	DefaultOutput   = OutputText
	DefaultLogLevel = "warn"
	EnvPrefix       = "SLICETRAIT_"
)

// Output formats.
const (
	OutputText  = "text"
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// Outputs lists the accepted output formats.
var Outputs = []string{OutputText, OutputTable, OutputYAML}

// ErrInvalidConfig is returned for values that fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective configuration of a slicetrait run.
type Config struct {
	// MappingFiles are YAML trait files applied at startup, in order.
	MappingFiles []string `koanf:"mapping"`
	// Builtin registers the tensors mapping set.
	Builtin  bool   `koanf:"builtin"`
	Output   string `koanf:"output"`
	LogLevel string `koanf:"log_level"`
	LogJSON  bool   `koanf:"log_json"`
	// MaxDepth bounds forwarding recursion; 0 means trait.DefaultMaxDepth.
	MaxDepth int `koanf:"max_depth"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"mapping":   []string{},
		"builtin":   true,
		"output":    DefaultOutput,
		"log_level": DefaultLogLevel,
		"log_json":  false,
		"max_depth": trait.DefaultMaxDepth,
	}
}

// Load builds the configuration. cfgFile is an explicit config file path;
// when empty, ./slicetrait.yaml is used if it exists. Only flags that were
// set on the command line override lower layers. Mapping file paths from a
// config file are relative to that file.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	// 2. Config file
	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}

		if files := k.Strings("mapping"); len(files) > 0 {
			base := filepath.Dir(path)
			for i, f := range files {
				files[i] = resolvePathRelativeTo(f, base)
			}

			_ = k.Set("mapping", files)
		}
	}

	// 3. Environment: SLICETRAIT_LOG_LEVEL -> log_level, lists are comma
	// separated, SLICETRAIT_NO_BUILTIN is stored inverted like --no-builtin.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	switch key {
	case "mapping":
		return key, splitList(value)
	case "no_builtin":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			// Left as text so decoding reports it.
			return "builtin", value
		}

		return "builtin", !b
	}

	return key, value
}

// flagKey maps changed flags to config keys. Kebab-case becomes snake_case
// and --no-builtin is stored inverted as builtin.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}

		key := strings.ReplaceAll(f.Name, "-", "_")

		switch key {
		case "config":
			return "", nil
		case "no_builtin":
			off, _ := flags.GetBool(f.Name)
			return "builtin", !off
		}

		return key, posflag.FlagVal(flags, f)
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if !slices.Contains(Outputs, c.Output) {
		return errors.WithHintf(
			errors.Wrapf(ErrInvalidConfig, "output %q", c.Output),
			"use one of %s", strings.Join(Outputs, ", "),
		)
	}

	if c.MaxDepth < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_depth %d is negative", c.MaxDepth)
	}

	return nil
}

// EngineConfig returns the engine settings derived from c.
func (c *Config) EngineConfig() trait.EngineConfig {
	return trait.EngineConfig{MaxDepth: c.MaxDepth}
}

// findConfigFile finds the config file to use.
// Priority: explicit path > slicetrait.yaml > slicetrait.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	for _, name := range []string{DefaultFile, "slicetrait.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(baseDir, path)
}

func splitList(s string) []string {
	var out []string

	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
