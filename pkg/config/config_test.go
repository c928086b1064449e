package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "", config.Paths.Analysis)
	assert.Equal(t, 0, config.Limits.MaxIncidents)
	assert.Equal(t, 0, config.Limits.MaxLocations)
	assert.False(t, config.Index.StrictRuleSetNames)
	assert.Equal(t, 1, config.Index.Workers)
	assert.Empty(t, config.Filters.Locations)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "", config.Log.File)
	assert.NoError(t, config.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")

		configContent := `
paths:
  analysis: ./analysis/output.yaml

limits:
  max-incidents: 50000
  max-locations: 4000

index:
  strict-ruleset-names: true
  workers: 4

filters:
  locations:
    - "**/*.java"
  categories:
    - mandatory
    - optional
  violation-ids:
    - test-001
    - test-002
  max-effort: 3

log:
  level: debug
  file: logs/kantra-impact.log
`
		err := os.WriteFile(configPath, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "./analysis/output.yaml", config.Paths.Analysis)
		assert.Equal(t, 50000, config.Limits.MaxIncidents)
		assert.Equal(t, 4000, config.Limits.MaxLocations)
		assert.True(t, config.Index.StrictRuleSetNames)
		assert.Equal(t, 4, config.Index.Workers)
		assert.Equal(t, []string{"**/*.java"}, config.Filters.Locations)
		assert.Equal(t, []string{"mandatory", "optional"}, config.Filters.Categories)
		assert.Equal(t, []string{"test-001", "test-002"}, config.Filters.ViolationIDs)
		assert.Equal(t, 3, config.Filters.MaxEffort)
		assert.Equal(t, "debug", config.Log.Level)
		assert.Equal(t, "logs/kantra-impact.log", config.Log.File)
	})

	t.Run("partial config file with defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")

		configContent := `
limits:
  max-incidents: 100
`
		err := os.WriteFile(configPath, []byte(configContent), 0644)
		require.NoError(t, err)

		config, err := Load(configPath)
		require.NoError(t, err)

		// Specified values
		assert.Equal(t, 100, config.Limits.MaxIncidents)

		// Default values
		assert.Equal(t, 1, config.Index.Workers)
		assert.Equal(t, "info", config.Log.Level)
		assert.False(t, config.Index.StrictRuleSetNames)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid YAML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")

		invalidYAML := `
index:
  workers: 2
  invalid yaml here [[[
`
		err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
		require.NoError(t, err)

		_, err = Load(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("out of range values", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")

		err := os.WriteFile(configPath, []byte("index:\n  workers: -2\n"), 0644)
		require.NoError(t, err)

		_, err = Load(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "index.workers")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty log level", func(c *Config) { c.Log.Level = "" }, ""},
		{"negative max incidents", func(c *Config) { c.Limits.MaxIncidents = -1 }, "limits.max-incidents"},
		{"negative max locations", func(c *Config) { c.Limits.MaxLocations = -1 }, "limits.max-locations"},
		{"negative max effort", func(c *Config) { c.Filters.MaxEffort = -1 }, "filters.max-effort"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("finds config in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		originalWd, _ := os.Getwd()
		defer os.Chdir(originalWd)

		err := os.Chdir(tmpDir)
		require.NoError(t, err)

		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")
		err = os.WriteFile(configPath, []byte("index:\n  workers: 2\n"), 0644)
		require.NoError(t, err)

		found := FindConfigFile()
		assert.Equal(t, ".kantra-impact.yaml", found)
	})

	t.Run("prefers .yaml over .yml", func(t *testing.T) {
		tmpDir := t.TempDir()
		originalWd, _ := os.Getwd()
		defer os.Chdir(originalWd)

		err := os.Chdir(tmpDir)
		require.NoError(t, err)

		// Create both files
		yamlPath := filepath.Join(tmpDir, ".kantra-impact.yaml")
		ymlPath := filepath.Join(tmpDir, ".kantra-impact.yml")
		err = os.WriteFile(yamlPath, []byte("index:\n  workers: 2\n"), 0644)
		require.NoError(t, err)
		err = os.WriteFile(ymlPath, []byte("index:\n  workers: 3\n"), 0644)
		require.NoError(t, err)

		found := FindConfigFile()
		assert.Equal(t, ".kantra-impact.yaml", found) // Should prefer .yaml
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("loads config when found", func(t *testing.T) {
		tmpDir := t.TempDir()
		originalWd, _ := os.Getwd()
		defer os.Chdir(originalWd)

		err := os.Chdir(tmpDir)
		require.NoError(t, err)

		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")
		err = os.WriteFile(configPath, []byte("index:\n  workers: 6\n"), 0644)
		require.NoError(t, err)

		config := LoadOrDefault()
		assert.Equal(t, 6, config.Index.Workers)
	})

	t.Run("returns defaults on parse error", func(t *testing.T) {
		tmpDir := t.TempDir()
		originalWd, _ := os.Getwd()
		defer os.Chdir(originalWd)

		err := os.Chdir(tmpDir)
		require.NoError(t, err)

		// Create invalid config
		configPath := filepath.Join(tmpDir, ".kantra-impact.yaml")
		err = os.WriteFile(configPath, []byte("invalid yaml [[["), 0644)
		require.NoError(t, err)

		config := LoadOrDefault()
		assert.Equal(t, 1, config.Index.Workers) // Should fall back to defaults
	})
}

func TestFileExists(t *testing.T) {
	t.Run("returns true for existing file", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "test.txt")
		err := os.WriteFile(filePath, []byte("test"), 0644)
		require.NoError(t, err)

		assert.True(t, fileExists(filePath))
	})

	t.Run("returns false for nonexistent file", func(t *testing.T) {
		assert.False(t, fileExists("/nonexistent/file.txt"))
	})
}
