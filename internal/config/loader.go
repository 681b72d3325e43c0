package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".receiptscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file structure.
// Every field is optional; absent fields keep their defaults.
type File struct {
	// APIKey is the OpenAI API key. The OPENAI_API_KEY environment
	// variable takes precedence when both are set.
	APIKey string `yaml:"api_key"`

	// VisionModel overrides the default vision model name.
	VisionModel string `yaml:"vision_model"`

	// UnitTimeoutSeconds overrides the per-producer deadline.
	UnitTimeoutSeconds int `yaml:"unit_timeout_seconds"`

	// BatchSize overrides the concurrent-analysis limit.
	BatchSize int `yaml:"batch_size"`

	// EditingSoftware overrides the metadata engine's editing-software
	// denylist. Entries are matched case-insensitively as substrings.
	EditingSoftware []string `yaml:"editing_software"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"db_dir"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply merges file overrides into the config. Environment and CLI values
// already present in the config win over file values.
func (cf *File) Apply(c *Config) {
	if c.OpenAIAPIKey == "" && cf.APIKey != "" {
		c.OpenAIAPIKey = cf.APIKey
	}
	if cf.VisionModel != "" {
		c.VisionModel = cf.VisionModel
	}
	if cf.UnitTimeoutSeconds > 0 {
		c.UnitTimeout = time.Duration(cf.UnitTimeoutSeconds) * time.Second
	}
	if cf.BatchSize > 0 {
		c.BatchSize = cf.BatchSize
	}
	if len(cf.EditingSoftware) > 0 {
		c.EditingSoftware = cf.EditingSoftware
	}
	if cf.DBDir != "" {
		c.DBDir = cf.DBDir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .receiptscan in the current directory
// 3. Look for .receiptscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
