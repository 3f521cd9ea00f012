// Package config loads nodeql's runtime tunables from YAML, mirroring
// the teacher's approach of a single loadable struct plus functional
// options for programmatic overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config bounds query execution, per spec.md §5.
type Config struct {
	// DefaultVarLengthCap is the hop ceiling applied to an unbounded '*'
	// variable-length quantifier when no explicit max is given.
	DefaultVarLengthCap int `yaml:"defaultVarLengthCap"`
	// RowCeiling is the maximum number of rows a single query may
	// produce before it fails with ResultTooLarge. 0 disables the check.
	RowCeiling int `yaml:"rowCeiling"`
	// QueryTimeout bounds how long a single query may run before its
	// context is cancelled. 0 disables the timeout.
	QueryTimeout time.Duration `yaml:"queryTimeout"`
}

// Option mutates a Config during construction.
type Option func(*Config)

func WithDefaultVarLengthCap(n int) Option { return func(c *Config) { c.DefaultVarLengthCap = n } }
func WithRowCeiling(n int) Option          { return func(c *Config) { c.RowCeiling = n } }
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Config) { c.QueryTimeout = d }
}

// Default returns the baseline configuration used when nothing else is
// specified.
func Default(opts ...Option) Config {
	c := Config{
		DefaultVarLengthCap: 10,
		RowCeiling:           100_000,
		QueryTimeout:         30 * time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Load reads a YAML config file, falling back to Default() for any field
// the file omits.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
