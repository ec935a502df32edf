package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - GITS_CONFIG_PATH: config file location (default: ~/.gits/config.toml)
//   - GITS_HOME: base directory for gits data (default: ~/.gits)
func GetDefaults() (map[string]string, error) {
	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	configPath := os.Getenv("GITS_CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(baseDir, "config.toml")
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getBaseDir returns the base directory for gits data, checking GITS_HOME
// first, then falling back to ~/.gits.
func getBaseDir() (string, error) {
	if path := os.Getenv("GITS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".gits"), nil
}
