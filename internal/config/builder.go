package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// builder applies layers in order. Struct layers are merged with mergo, so
// their zero values never override. The env layer is parsed straight into
// the result: only variables that are present are set, which lets
// VITEBRIDGE_SERVER_DEV=false undo a true from the file.
type builder struct {
	layers []func(*Config) error
	err    error
}

func newBuilder() *builder {
	return &builder{
		layers: make([]func(*Config) error, 0, 4),
	}
}

func (b *builder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	cfg := new(Config)
	for _, apply := range b.layers {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.validate()
}

func (b *builder) with(layer *Config) *builder {
	if layer == nil {
		return b
	}
	b.layers = append(b.layers, func(cfg *Config) error {
		if err := mergo.Merge(cfg, layer, mergo.WithOverride); err != nil {
			return fmt.Errorf("error merging configs: %w", err)
		}
		return nil
	})
	return b
}

func (b *builder) withFile(path string, required bool) *builder {
	layer, err := parseFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return b
		}
		b.err = errors.Join(b.err, err)
		return b
	}
	return b.with(layer)
}

func (b *builder) withEnv() *builder {
	b.layers = append(b.layers, parseEnv)
	return b
}

// withOverrides runs setters that must win even with zero values, such as
// boolean flags explicitly set to false.
func (b *builder) withOverrides(overrides ...func(*Config)) *builder {
	for _, override := range overrides {
		if override == nil {
			continue
		}
		b.layers = append(b.layers, func(cfg *Config) error {
			override(cfg)
			return nil
		})
	}
	return b
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
