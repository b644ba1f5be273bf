// Package config handles configuration loading and shared settings.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Preview controls the rendered dataset thumbnail.
type Preview struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Config represents the root configuration file structure.
type Config struct {
	// ScratchDir roots the transient extraction and export directories.
	// Empty means the OS temp dir.
	ScratchDir string `yaml:"scratch_dir,omitempty"`

	// MaxUploadMB caps upload and merge payload sizes.
	MaxUploadMB int64 `yaml:"max_upload_mb,omitempty"`

	// SessionTTLMinutes is how long an idle editing session survives.
	SessionTTLMinutes int `yaml:"session_ttl_minutes,omitempty"`

	Preview Preview `yaml:"preview,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified
// path. A missing file yields the defaults so the server runs without any
// configuration at all.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 64
	}
	if c.SessionTTLMinutes <= 0 {
		c.SessionTTLMinutes = 60
	}
	if c.Preview.Width <= 0 {
		c.Preview.Width = 512
	}
	if c.Preview.Height <= 0 {
		c.Preview.Height = 512
	}
}
