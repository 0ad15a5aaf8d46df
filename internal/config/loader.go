package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if POINTS_CONFIG is set
//  3. env (prefix POINTS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("POINTS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: POINTS_ADDR, POINTS_VISION_API_KEY, ...
	// Map env keys like POINTS_MAX_RETRIES -> max_retries (flat keys).
	envProvider := env.Provider("POINTS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "points_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RequestTimeoutSeconds <= 0:
		return fmt.Errorf("%w: request_timeout_seconds must be positive", ErrInvalidConfig)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	case c.MaxImages <= 0:
		return fmt.Errorf("%w: max_images must be positive", ErrInvalidConfig)
	case c.MaxImageSizeMB <= 0:
		return fmt.Errorf("%w: max_image_size_mb must be positive", ErrInvalidConfig)
	}
	// An empty vision_api_key is not fatal at load time: the analyze CLI can
	// run against a remote server without one. The inference client checks
	// again on use.
	return nil
}
