package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dhamidi/jackal/format"
)

// ConfigFile is looked up in the analyzed directory.
const ConfigFile = "jackal.toml"

// Config holds the settings read from jackal.toml.
type Config struct {
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	Watch  WatchConfig  `toml:"watch"`
}

type OutputConfig struct {
	Format    string `toml:"format"`
	Extension string `toml:"extension"`
	Indent    string `toml:"indent"`
	Tokens    bool   `toml:"tokens"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type WatchConfig struct {
	Interval Duration `toml:"interval"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the settings used when no jackal.toml exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a TOML file, fills in defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.Warningf("%s: unknown key %s", path, key)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("loaded config from %s", path)
	return &cfg, nil
}

// FindConfig loads dir/jackal.toml, or returns the defaults when the file
// does not exist.
func FindConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "xml"
	}
	if c.Output.Extension == "" {
		c.Output.Extension = format.Extension(c.Output.Format)
	}
	if c.Output.Indent == "" {
		c.Output.Indent = "\t"
	}
	if c.Watch.Interval.Duration == 0 {
		c.Watch.Interval.Duration = time.Second
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if !format.Valid(c.Output.Format) {
		return fmt.Errorf("output.format: unknown format %q (want one of %s)",
			c.Output.Format, strings.Join(format.Names(), ", "))
	}
	if !strings.HasPrefix(c.Output.Extension, ".") {
		return fmt.Errorf("output.extension: %q must start with a dot", c.Output.Extension)
	}
	if c.Output.Extension == SourceExt {
		return fmt.Errorf("output.extension: output would overwrite the %s sources", SourceExt)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity: must not be negative")
	}
	if c.Watch.Interval.Duration < 0 {
		return fmt.Errorf("watch.interval: must be positive")
	}
	return nil
}
