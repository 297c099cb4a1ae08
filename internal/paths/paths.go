package paths

import (
	"os"
	"path/filepath"
)

func configRoot() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	h, _ := os.UserHomeDir()
	return filepath.Join(h, ".config")
}

// ConfigDir returns <user config dir>/selectfield.
func ConfigDir() string {
	return filepath.Join(configRoot(), "selectfield")
}

// ConfigFile returns <user config dir>/selectfield/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogFile returns <user config dir>/selectfield/selectfield.log.
func LogFile() string {
	return filepath.Join(ConfigDir(), "selectfield.log")
}

// CatalogFile returns <user config dir>/selectfield/catalog.yaml, the
// catalog used when neither a flag nor the config names one.
func CatalogFile() string {
	return filepath.Join(ConfigDir(), "catalog.yaml")
}

// Expand replaces a leading ~ with the home directory.
func Expand(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1])) {
		h, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(h, path[1:])
	}
	return path
}
