package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"depth_go/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config holds the whole application configuration: the static venue
// catalog plus the ambient knobs. Loaded once at startup; env
// variables override selected values after parsing.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Venues []domain.Venue `yaml:"venues"`

	// DefaultVenue is the venue selected at startup.
	DefaultVenue string `yaml:"default_venue"`

	Poll struct {
		IntervalMS int `yaml:"interval_ms"`
	} `yaml:"poll"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Venue returns the catalog entry for a venue id.
func (c *Config) Venue(id string) (domain.Venue, bool) {
	for _, v := range c.Venues {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Venue{}, false
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if len(c.Venues) == 0 {
		return fmt.Errorf("at least one venue is required")
	}
	seen := make(map[string]bool, len(c.Venues))
	for _, v := range c.Venues {
		if v.ID == "" {
			return fmt.Errorf("venue with empty id")
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate venue id: %s", v.ID)
		}
		seen[v.ID] = true
		if !strings.HasPrefix(v.FeedEndpoint, "ws://") && !strings.HasPrefix(v.FeedEndpoint, "wss://") {
			return fmt.Errorf("invalid feed endpoint for %s: %s", v.ID, v.FeedEndpoint)
		}
		if !strings.HasPrefix(v.PollEndpoint, "http://") && !strings.HasPrefix(v.PollEndpoint, "https://") {
			return fmt.Errorf("invalid poll endpoint for %s: %s", v.ID, v.PollEndpoint)
		}
		if v.InstrumentSymbol == "" {
			return fmt.Errorf("venue %s has no instrument symbol", v.ID)
		}
	}
	if c.DefaultVenue != "" && !seen[c.DefaultVenue] {
		return fmt.Errorf("default venue %s not in catalog", c.DefaultVenue)
	}
	if c.Poll.IntervalMS <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}

// overrideWithEnv overrides configuration values from the environment.
func overrideWithEnv(cfg *Config) {
	if venue := os.Getenv("DEPTH_DEFAULT_VENUE"); venue != "" {
		cfg.DefaultVenue = venue
	}
	if level := os.Getenv("DEPTH_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
