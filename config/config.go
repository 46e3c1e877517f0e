// Package config loads the run configuration: the static ticker-translation
// table and a few output knobs. The configuration is read once per
// invocation and is read-only afterwards.
package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the YAML run configuration.
type Config struct {
	// LogLevel controls the verbosity of advisory output.
	LogLevel string `yaml:"log_level" default:"warn" validate:"oneof=debug info warn error"`

	// BaseFiat is the account base currency the single-currency rule sets
	// (eToro, Schwab) expect. Statements in any other base currency are
	// rejected.
	BaseFiat string `yaml:"base_fiat" default:"USD" validate:"len=3,uppercase"`

	// Translations maps a broker-specific instrument name to a canonical
	// symbol, keyed by exchange. IG names must appear here: IG exports
	// carry no tickers at all, only free-text market names.
	Translations map[string]map[string]string `yaml:"translations"`
}

var validate = validator.New()

// Load reads the configuration file at path. An empty path yields the
// built-in defaults with an empty translation table.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}
