// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath resolves the SQLite database location: the database.path
// setting when present, otherwise ~/.local/share/centavo/centavo.db.
func DatabasePath() (string, error) {
	if configured := viper.GetString("database.path"); configured != "" {
		return ExpandPath(configured), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "centavo", "centavo.db"), nil
}

// DefaultCurrency resolves the currency code used when a command does not
// pass one explicitly. The engine itself never reads this; only the CLI
// boundary does.
func DefaultCurrency() string {
	if code := viper.GetString("currency"); code != "" {
		return strings.ToUpper(code)
	}
	return "PHP"
}
