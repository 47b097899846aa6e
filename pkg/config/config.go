// Package config loads the optional YAML configuration file and applies
// defaults when no file is given.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Limits caps archive extraction to guard against archive bombs.
type Limits struct {
	// MaxFiles bounds the number of members extracted from one archive.
	MaxFiles int `yaml:"max_files"`

	// MaxFileMB bounds one extracted member, in megabytes.
	MaxFileMB int64 `yaml:"max_file_mb"`

	// MaxTotalMB bounds the whole extracted tree, in megabytes.
	MaxTotalMB int64 `yaml:"max_total_mb"`
}

// Config is the full configuration of an analysis process. Zero values
// are replaced by defaults when loading.
type Config struct {
	// Model names the oracle model to consult.
	Model string `yaml:"model"`

	// TimeoutSeconds bounds one oracle call, retries included.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// DocumentExtensions overrides the set of extensions considered
	// main-document candidates. Leading dots optional.
	DocumentExtensions []string `yaml:"document_extensions"`

	// MetadataPatterns overrides the glob patterns matched against base
	// names to find metadata files worth quoting in the initial prompt.
	MetadataPatterns []string `yaml:"metadata_patterns"`

	// Limits caps extraction.
	Limits Limits `yaml:"limits"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Model:          "gemini-2.5-flash",
		TimeoutSeconds: 60,
		Limits: Limits{
			MaxFiles:   10000,
			MaxFileMB:  256,
			MaxTotalMB: 2048,
		},
	}
}

// Load reads a YAML configuration file. Missing fields keep their
// defaults; an unreadable or malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	def := Default()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.Limits.MaxFiles <= 0 {
		cfg.Limits.MaxFiles = def.Limits.MaxFiles
	}
	if cfg.Limits.MaxFileMB <= 0 {
		cfg.Limits.MaxFileMB = def.Limits.MaxFileMB
	}
	if cfg.Limits.MaxTotalMB <= 0 {
		cfg.Limits.MaxTotalMB = def.Limits.MaxTotalMB
	}
	return cfg
}

// Timeout returns the oracle call timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
