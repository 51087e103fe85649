package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Initialize writes the default configuration to dir if it doesn't already
// have one, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	logger.Printf("Initializing configuration in %s\n", dir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := os.Stat(configPath); {
	case err == nil:
		logger.Printf("- %s already exists, leaving it alone\n", configPath)
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("- Writing %s\n", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return Load(dir)
}
