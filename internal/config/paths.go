package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file looked up in the working directory when no
// --config flag is given.
const FileName = ".corpussplit.yaml"

// Resolve returns the config file to load: explicit if set, otherwise
// FileName in dir if it exists. An empty result means defaults only.
func Resolve(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to check config file %s: %w", candidate, err)
	}
	return candidate, nil
}

// Load resolves and loads the config file, falling back to DefaultConfig.
func Load(explicit, dir string) (*Config, error) {
	path, err := Resolve(explicit, dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFromFile(path)
}
