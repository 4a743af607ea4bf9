package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".casescan"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide whether that is fatal: an explicitly specified
// path that is missing is an error, a missing default file is not.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads the case configuration from a YAML file.
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

// FindConfigFile searches for the configuration file in order:
// the explicit path if given, then .casescan in the case directory,
// then .casescan in the current directory.
//
// Returns the path if found, or empty string.
func FindConfigFile(configPath, caseDir string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if caseDir != "" {
		p := filepath.Join(caseDir, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	cwd, err := os.Getwd()
	if err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
