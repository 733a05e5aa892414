package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/refixlabs/refix/checker"
)

// RuleConfig adjusts a single rule. Severity "off" disables the rule
// entirely; Threshold is honored by rules that take one.
type RuleConfig struct {
	Severity  checker.Severity `yaml:"severity"`
	Threshold int              `yaml:"threshold,omitempty"`
}

// Config represents the overall configuration with a name and a map of
// per-rule adjustments keyed by rule name.
type Config struct {
	Name  string                `yaml:"name"`
	Rules map[string]RuleConfig `yaml:"rules"`
}

// DefaultConfig returns the configuration a fresh checkout starts from.
func DefaultConfig() Config {
	return Config{
		Name:  "refix",
		Rules: map[string]RuleConfig{},
	}
}

// LoadConfig reads a YAML configuration file. A missing path yields the
// default configuration rather than an error, so running without a
// .refix.yaml just uses the built-in rule set.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig marshals a configuration to the given path, creating or
// truncating the file.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(d); err != nil {
		return err
	}
	return nil
}
