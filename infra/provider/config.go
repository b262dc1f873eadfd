// Package provider implements the remote data provider contract over HTTP,
// plus an in-memory variant used for tests and local development.
package provider

import (
	"fmt"
	"strings"

	"github.com/fleetyard/dispatchboard/core/board"
)

// Config selects and configures the provider backend.
type Config struct {
	// Mode selects the backend: "http" or "mock".
	Mode string `json:"mode"`
	// BaseURL is the root of the provider REST API.
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each provider call.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "http"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "mock":
	case "http":
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown provider mode %s", c.Mode)
	}
	return nil
}

// New creates a provider depending on cfg.Mode.
func New(cfg Config) (board.Provider, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.ToLower(cfg.Mode) == "mock" {
		return NewMemoryProvider(), nil
	}
	return NewHTTPProvider(cfg), nil
}
