// Package config loads evaluator options from a YAML file.
//
//	requires: ">= 1.0, < 2.0"
//	verbosity: high
//	rename_free_vars: false
//	show_equivalent: true
//	max_depth: 1000
//	trace_capacity: 0
//	bindings:
//	  - name: id
//	    term: \x. x
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/vic/lamb/pkg/interpreter"
	"github.com/vic/lamb/pkg/trace"
)

// Binding is an extra definition loaded after the builtins. Order matters:
// later bindings may refer to earlier ones.
type Binding struct {
	Name string `yaml:"name"`
	Term string `yaml:"term"`
}

// Config mirrors the file. Pointer fields distinguish "unset" from the zero
// value so that only keys present in the file override defaults.
type Config struct {
	Requires       string    `yaml:"requires"`
	Verbosity      string    `yaml:"verbosity"`
	RenameFreeVars *bool     `yaml:"rename_free_vars"`
	ShowEquivalent *bool     `yaml:"show_equivalent"`
	MaxDepth       *int      `yaml:"max_depth"`
	TraceCapacity  *int      `yaml:"trace_capacity"`
	Bindings       []Binding `yaml:"bindings"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML, rejecting unknown keys, and validates the result.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("requires %q: %w", c.Requires, err)
		}
	}
	if _, err := trace.ParseVerbosity(c.Verbosity); err != nil {
		return err
	}
	if c.MaxDepth != nil && *c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", *c.MaxDepth)
	}
	if c.TraceCapacity != nil && *c.TraceCapacity < 0 {
		return fmt.Errorf("trace_capacity must not be negative, got %d", *c.TraceCapacity)
	}
	for i, b := range c.Bindings {
		if b.Name == "" {
			return fmt.Errorf("bindings[%d]: missing name", i)
		}
		if b.Term == "" {
			return fmt.Errorf("bindings[%d] %s: missing term", i, b.Name)
		}
	}
	return nil
}

// Check verifies that version satisfies the requires constraint.
func (c *Config) Check(version string) error {
	if c.Requires == "" {
		return nil
	}
	con, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("requires %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("version %q: %w", version, err)
	}
	if ok, errs := con.Validate(v); !ok {
		return fmt.Errorf("version %s does not satisfy %q: %w", v, c.Requires, errors.Join(errs...))
	}
	return nil
}

// Apply overrides the fields of opts that the file sets.
func (c *Config) Apply(opts interpreter.Options) interpreter.Options {
	if c.Verbosity != "" {
		v, _ := trace.ParseVerbosity(c.Verbosity)
		opts.Verbosity = v
	}
	if c.RenameFreeVars != nil {
		opts.RenameFreeVars = *c.RenameFreeVars
	}
	if c.ShowEquivalent != nil {
		opts.ShowEquivalent = *c.ShowEquivalent
	}
	if c.MaxDepth != nil {
		opts.MaxDepth = *c.MaxDepth
	}
	if c.TraceCapacity != nil {
		opts.TraceCapacity = *c.TraceCapacity
	}
	return opts
}

// Define loads the file's bindings into ip in order.
func (c *Config) Define(ip *interpreter.Interpreter) error {
	for _, b := range c.Bindings {
		if err := ip.Define(b.Name, b.Term); err != nil {
			return err
		}
	}
	return nil
}
