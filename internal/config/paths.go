package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigName is the YAML project config file name.
	ProjectConfigName = ".changeforge.yml"
	// ProjectConfigJSONName is the JSON project config file name.
	ProjectConfigJSONName = ".changeforge.json"
)

// UserConfigPath returns the XDG-compliant user config path:
// ~/.config/changeforge/config.yml (or $XDG_CONFIG_HOME when set).
func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "changeforge", "config.yml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "changeforge", "config.yml"), nil
}
