// Package config loads the model registry from a YAML file. Secrets are
// referenced with ${VAR} placeholders and expanded from the environment at
// load time, so config files stay safe to commit.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelConfig describes one configured model endpoint. CallName is the
// handle callers use to select it; Name is the model identifier sent on the
// wire. The two are separate so one logical name can be repointed at a
// different deployment without touching call sites.
type ModelConfig struct {
	CallName string `yaml:"call_name"`
	Name     string `yaml:"name"`
	APIBase  string `yaml:"api_base"`
	APIKey   string `yaml:"api_key"`

	MaxTokens      int  `yaml:"max_tokens,omitempty"`
	EnableThinking bool `yaml:"enable_thinking,omitempty"`
	KeepThinking   bool `yaml:"keep_thinking,omitempty"`
}

// Config is the full model registry. The first model listed is the default
// used when a request names no model.
type Config struct {
	Models []ModelConfig `yaml:"models"`
}

// Load reads, env-expands and decodes the YAML registry at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes an env-expanded YAML registry from raw bytes.
func Parse(raw []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if len(cfg.Models) == 0 {
		return fmt.Errorf("config declares no models")
	}

	seen := make(map[string]bool, len(cfg.Models))
	for i, model := range cfg.Models {
		if model.CallName == "" {
			return fmt.Errorf("model %d has no call_name", i)
		}
		if model.Name == "" {
			return fmt.Errorf("model %q has no name", model.CallName)
		}
		if seen[model.CallName] {
			return fmt.Errorf("duplicate call_name %q", model.CallName)
		}
		seen[model.CallName] = true
	}
	return nil
}

// Default returns the registry's default model, the first one listed.
func (cfg *Config) Default() ModelConfig {
	return cfg.Models[0]
}

// Lookup finds a model by call name.
func (cfg *Config) Lookup(callName string) (ModelConfig, bool) {
	for _, model := range cfg.Models {
		if model.CallName == callName {
			return model, true
		}
	}
	return ModelConfig{}, false
}
