package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder accumulates configuration layers in precedence order.
// mergo.Merge only fills zero fields, so the first layer to set a value
// wins; build folds the layers and applies validation defaults.
type configBuilder struct {
	layers []*StructuredConfig
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{layers: make([]*StructuredConfig, 0, 3)}
}

func (b *configBuilder) withEnv() *configBuilder {
	layer := &StructuredConfig{}
	if err := parseEnv(layer); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("env: %w", err))
		return b
	}
	b.layers = append(b.layers, layer)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	b.layers = append(b.layers, ParseFlags())
	return b
}

// withJSON loads the file layer only when a higher-precedence layer named a
// path, so it must run after withEnv and withFlags.
func (b *configBuilder) withJSON() *configBuilder {
	for _, layer := range b.layers {
		if layer.JSONFilePath == "" {
			continue
		}
		jsonLayer, err := parseJSON(layer.JSONFilePath)
		if err != nil {
			b.err = errors.Join(b.err, fmt.Errorf("json: %w", err))
			return b
		}
		b.layers = append(b.layers, jsonLayer)
		return b
	}
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, layer := range b.layers {
		if err := mergo.Merge(merged, layer); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return merged, merged.validate()
}
