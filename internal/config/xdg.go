package config

import (
	"os"
	"path/filepath"

	"github.com/julianstephens/habitnudge/internal/constants"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// Dir is the application's config directory. Logs and the default database live here.
func Dir() string {
	return filepath.Join(XDGConfigHome(), constants.AppName)
}

func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.toml")
}

func DefaultDBPath() string {
	return filepath.Join(Dir(), constants.AppName+".db")
}
