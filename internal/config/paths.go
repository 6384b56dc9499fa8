package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "CIRCLE_CONFIG"
	EnvAddr       = "CIRCLE_ADDR"
	EnvDBPath     = "CIRCLE_DB"
	EnvDataDir    = "CIRCLE_DATA_DIR"

	// ConfigFileName is looked up in the working directory
	ConfigFileName = "circle.yaml"
	// ConfigDirName is the directory under XDG and /etc
	ConfigDirName = "circle"
)

// searchPaths lists config locations in lookup order
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file from searchPaths,
// made absolute when possible. It returns "" when there is none.
func FindConfigPath() string {
	for _, p := range searchPaths() {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}
