package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the kantra-impact configuration
type Config struct {
	// Input paths
	Paths PathsConfig `yaml:"paths"`

	// Size ceilings checked before indexing
	Limits LimitsConfig `yaml:"limits"`

	// Index construction
	Index IndexConfig `yaml:"index"`

	// Filtering options applied to the built index
	Filters FiltersConfig `yaml:"filters"`

	// Logging
	Log LogConfig `yaml:"log"`
}

// PathsConfig holds input path settings
type PathsConfig struct {
	Analysis string `yaml:"analysis"` // Path to Konveyor output.yaml or its directory
}

// LimitsConfig holds size ceilings
type LimitsConfig struct {
	MaxIncidents int `yaml:"max-incidents"` // 0 = no limit
	MaxLocations int `yaml:"max-locations"` // 0 = no limit
}

// IndexConfig holds index construction settings
type IndexConfig struct {
	StrictRuleSetNames bool `yaml:"strict-ruleset-names"` // Fail on same-named rule sets sharing a location
	Workers            int  `yaml:"workers"`              // Concurrent rule set folding (1 = sequential)
}

// FiltersConfig holds violation filtering options
type FiltersConfig struct {
	Locations    []string `yaml:"locations"`     // Glob patterns for locations
	Categories   []string `yaml:"categories"`    // Filter by category (mandatory, optional, potential)
	ViolationIDs []string `yaml:"violation-ids"` // Filter by specific violation IDs
	MaxEffort    int      `yaml:"max-effort"`    // Maximum effort level (0 = no limit)
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Optional JSON log file, rotated
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxIncidents: 0, // No limit
			MaxLocations: 0, // No limit
		},
		Index: IndexConfig{
			StrictRuleSetNames: false,
			Workers:            1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w\n\n"+
			"Please check that the file is valid YAML and follows the expected format.\n"+
			"See README.md for example configuration.", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}

	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Limits.MaxIncidents < 0 {
		return fmt.Errorf("limits.max-incidents must be non-negative")
	}
	if c.Limits.MaxLocations < 0 {
		return fmt.Errorf("limits.max-locations must be non-negative")
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("index.workers must be non-negative")
	}
	if c.Filters.MaxEffort < 0 {
		return fmt.Errorf("filters.max-effort must be non-negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q (must be debug, info, warn, or error)", c.Log.Level)
	}
	return nil
}

// FindConfigFile searches for a config file in common locations
// Returns the path to the first config file found, or empty string if none found
func FindConfigFile() string {
	// Check current directory first
	candidates := []string{
		".kantra-impact.yaml",
		".kantra-impact.yml",
	}

	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(homeDir, candidate)
			if fileExists(path) {
				return path
			}
		}
	}

	return ""
}

// LoadOrDefault attempts to load a config file, falling back to defaults
func LoadOrDefault() *Config {
	configPath := FindConfigFile()
	if configPath == "" {
		return DefaultConfig()
	}

	config, err := Load(configPath)
	if err != nil {
		// Log the error but return defaults
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration.\n\n")
		return DefaultConfig()
	}

	return config
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
