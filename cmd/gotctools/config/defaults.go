package config

import (
	"os"
	"path/filepath"
)

// FileName is the name of the gotctools config file.
const FileName = "gotctools.config"

// DefaultConfigLocations returns the gotctools.config locations to search
// in precedence order
func DefaultConfigLocations() []string {
	var locations []string

	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations, filepath.Join(cwd, FileName))
		locations = append(locations, filepath.Join(cwd, ".gotctools", FileName))
	}

	if p := GetUserConfigPath(); p != "" {
		locations = append(locations, p)
	}

	return locations
}

// FindConfigFile finds the first existing gotctools.config file
func FindConfigFile() string {
	for _, loc := range DefaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// GetUserConfigPath returns the user-level gotctools.config path
func GetUserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gotctools", FileName)
}

// ResolveConfigPath returns explicit if set, otherwise the first existing
// config file, otherwise the user config path (which may not exist yet).
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if found := FindConfigFile(); found != "" {
		return found
	}
	return GetUserConfigPath()
}

// LoadOrEmpty loads the config at path. A missing file yields an empty config.
func LoadOrEmpty(path string) (*Config, error) {
	if path == "" {
		return NewConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewConfig(), nil
	}
	return LoadConfig(path)
}
