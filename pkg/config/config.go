// Package config holds the runtime options of a realm and loads them from
// YAML files.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Options configures a realm and the command line tools built on it.
type Options struct {
	// Strict evaluates top-level code as strict mode code.
	Strict bool `yaml:"strict"`
	// MaxCallDepth bounds nested closure calls; exceeding it is a RangeError.
	// Zero takes the default and a negative value removes the limit.
	MaxCallDepth int `yaml:"max_call_depth"`
	// RegExpCacheSize is the number of compiled patterns kept in the LRU.
	// Zero takes the default and a negative value removes the bound.
	RegExpCacheSize int `yaml:"regexp_cache_size"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// AssertBindings turns on executor-contract assertions in the
	// environment records.
	AssertBindings bool `yaml:"assert_bindings"`
	// Indent is used when the CLI pretty-prints JSON.
	Indent string `yaml:"indent"`
}

// Defaults returns the options used for every field a file leaves unset.
func Defaults() Options {
	return Options{
		MaxCallDepth:    512,
		RegExpCacheSize: 64,
		LogLevel:        "info",
		Indent:          "  ",
	}
}

// Load reads options from a YAML file. An empty path yields the defaults.
func Load(path string) (Options, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config: %w", err)
	}
	opts, err := Parse(data)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes YAML options, rejecting unknown keys, and fills the gaps
// from Defaults.
func Parse(data []byte) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return opts.Normalize()
}

// Normalize merges Defaults into the zero fields of o and validates the
// result.
func (o Options) Normalize() (Options, error) {
	if err := mergo.Merge(&o, Defaults()); err != nil {
		return Options{}, fmt.Errorf("failed to merge defaults: %w", err)
	}
	if _, err := o.Level(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Level maps LogLevel to a slog level.
func (o Options) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(o.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", o.LogLevel)
	}
	return level, nil
}
