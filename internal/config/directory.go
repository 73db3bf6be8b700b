package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	litetableDir = ".litetable"
)

// GetLitetableDir returns the path to the LiteTable directory in the user's home directory.
func GetLitetableDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, litetableDir), nil
}

// DefaultPath is where the mapping file lives unless PathEnv overrides it.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}

	dir, err := GetLitetableDir()
	if err != nil {
		return "", fmt.Errorf("failed to get LiteTable directory: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}
