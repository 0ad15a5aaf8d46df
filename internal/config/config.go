// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"strconv"
	"time"
)

// Default pipeline tuning values, matching the upstream vision service's
// published quota behavior.
const (
	defaultRequestTimeout = 45 * time.Second
	defaultRetryBaseDelay = 2 * time.Second
	defaultImageDelay     = 1 * time.Second
	defaultMaxRetries     = 3
	defaultMaxImages      = 10
	defaultMaxImageSizeMB = 10
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// VisionAPIKey authenticates against the vision model API.
	VisionAPIKey string `koanf:"vision_api_key"`

	// VisionBaseURL is the API root of the vision model service.
	VisionBaseURL string `koanf:"vision_base_url"`

	// VisionModel names the model used for transcription.
	VisionModel string `koanf:"vision_model"`

	// RequestTimeoutSeconds bounds each individual inference attempt.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`

	// MaxRetries caps retries per inference call (attempts = retries + 1).
	MaxRetries int `koanf:"max_retries"`

	// RetryBaseDelayMS is the first backoff delay; doubles per retry.
	RetryBaseDelayMS int `koanf:"retry_base_delay_ms"`

	// ImageDelayMS is the pause between successive images in a batch.
	ImageDelayMS int `koanf:"image_delay_ms"`

	// MaxImages caps the number of images accepted per request.
	MaxImages int `koanf:"max_images"`

	// MaxImageSizeMB caps the size of each uploaded image.
	MaxImageSizeMB int `koanf:"max_image_size_mb"`

	// PositionPoints maps finishing rank (as a string key) to bonus points.
	PositionPoints map[string]int `koanf:"position_points"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		VisionBaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		VisionModel:           "gemini-1.5-flash",
		RequestTimeoutSeconds: int(defaultRequestTimeout / time.Second),
		MaxRetries:            defaultMaxRetries,
		RetryBaseDelayMS:      int(defaultRetryBaseDelay / time.Millisecond),
		ImageDelayMS:          int(defaultImageDelay / time.Millisecond),
		MaxImages:             defaultMaxImages,
		MaxImageSizeMB:        defaultMaxImageSizeMB,
		PositionPoints: map[string]int{
			"1": 10, "2": 6, "3": 5, "4": 4, "5": 3, "6": 2, "7": 1, "8": 1,
		},
	}
}

// RequestTimeout returns the per-attempt inference timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the initial backoff delay.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

// ImageDelay returns the inter-image pause.
func (c *Config) ImageDelay() time.Duration {
	return time.Duration(c.ImageDelayMS) * time.Millisecond
}

// MaxImageSizeBytes returns the per-image upload cap in bytes.
func (c *Config) MaxImageSizeBytes() int64 {
	return int64(c.MaxImageSizeMB) << 20
}

// PositionPointsTable converts the string-keyed mapping (a koanf map key
// is always a string) to the integer ranks the scorer works with. Keys
// that do not parse as ranks are dropped.
func (c *Config) PositionPointsTable() map[int]int {
	table := make(map[int]int, len(c.PositionPoints))
	for key, pts := range c.PositionPoints {
		rank, err := strconv.Atoi(key)
		if err != nil || rank <= 0 {
			continue
		}
		table[rank] = pts
	}
	return table
}
