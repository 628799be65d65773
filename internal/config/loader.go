package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".urlcrawler"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads the defaults and site configurations from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; whether that is
// fatal depends on whether the user named the file explicitly.
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
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .urlcrawler in the current directory
// 3. Look for .urlcrawler in the user's home directory
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

// ApplyFile loads the configuration file (explicit path or discovered) and
// merges the settings for host into c. A missing file is not an error unless
// it was named explicitly.
func (c *Config) ApplyFile(host string, isSet func(flag string) bool) error {
	path := FindConfigFile(c.ConfigFilePath)
	if path == "" {
		if c.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFilePath)
		}
		return nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	c.SiteConfigs = cf
	c.ApplySiteConfig(cf.GetSiteConfig(host), isSet)
	return nil
}
