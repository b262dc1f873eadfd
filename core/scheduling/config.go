package scheduling

import (
	"fmt"
	"time"
)

// Config bounds the polling cycle. The original board polled unboundedly;
// a budget is mandatory here.
type Config struct {
	// PollIntervalSeconds is the delay between job-status checks.
	PollIntervalSeconds int `json:"poll_interval_seconds"`
	// MaxAttempts stops the cycle after this many status checks.
	MaxAttempts int `json:"max_attempts"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 5
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 60
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be positive")
	}
	return nil
}

// Interval returns the poll interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
