// Package config loads kompas settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "KOMPAS_CONFIG"

// Config is the root configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Lexer  LexerConfig  `toml:"lexer"`
	Output OutputConfig `toml:"output"`
	Export ExportConfig `toml:"export"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Prefix string `toml:"prefix"`
}

// LexerConfig points at an alternative token rule file. Empty means the
// built-in rules.
type LexerConfig struct {
	Rules string `toml:"rules"`
}

// OutputConfig selects what check prints after a successful run.
type OutputConfig struct {
	Tokens    bool   `toml:"tokens"`
	ParseTree bool   `toml:"parse_tree"`
	AST       bool   `toml:"ast"`
	Tables    bool   `toml:"tables"`
	Format    string `toml:"format"`
}

// ExportConfig controls the SQLite export of the symbol tables. An empty
// database path disables the export.
type ExportConfig struct {
	Database string   `toml:"database"`
	Timeout  Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the TOML file at path.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Lexer.Rules = os.ExpandEnv(cfg.Lexer.Rules)
	cfg.Export.Database = os.ExpandEnv(cfg.Export.Database)
	return &cfg, nil
}

// LoadFromEnv loads the file named by KOMPAS_CONFIG, or the first default
// location that exists. Without any file it returns the defaults.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		defaultPaths := []string{
			"./kompas.toml",
			filepath.Join(os.Getenv("HOME"), ".config/kompas/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Export.Timeout.Duration == 0 {
		c.Export.Timeout.Duration = 10 * time.Second
	}
}

// Validate rejects values the commands cannot act on.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q: want text, json or logfmt", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("invalid output format %q: want text or yaml", c.Output.Format)
	}
	if c.Export.Timeout.Duration < 0 {
		return fmt.Errorf("export timeout must not be negative")
	}
	return nil
}
