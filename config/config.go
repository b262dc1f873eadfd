// Package config loads the service configuration from JSON or YAML files
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fleetyard/dispatchboard/core/metrics"
	"github.com/fleetyard/dispatchboard/core/scheduling"
	"github.com/fleetyard/dispatchboard/infra/bridge"
	"github.com/fleetyard/dispatchboard/infra/flow"
	"github.com/fleetyard/dispatchboard/infra/provider"
)

type Config struct {
	Provider   provider.Config   `json:"provider"`
	Engine     flow.Config       `json:"engine"`
	Scheduling scheduling.Config `json:"scheduling"`
	Metrics    metrics.Config    `json:"metrics"`
	Bridge     bridge.Config     `json:"bridge"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("DB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "db_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Provider.SetDefaults()
	cfg.Engine.SetDefaults()
	cfg.Scheduling.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Bridge.SetDefaults()
	if err := cfg.Provider.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Scheduling.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Bridge.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
