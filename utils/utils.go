package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sammcj/hfscout/logging"
)

const appName = "hfscout"

func GetHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logging.ErrorLogger.Printf("Failed to get user home directory: %v\n", err)

		return ""
	}
	return homeDir
}

// GetConfigDir returns the directory holding the configuration, themes and logs.
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", appName)
}

// GetConfigPath returns the path to the configuration JSON file.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.json")
}

// GetThemesDir returns the directory user themes are stored in.
func GetThemesDir() string {
	return filepath.Join(GetConfigDir(), "themes")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		return GetHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(GetHomeDir(), path[2:])
	}
	return path
}

// IsLocalhost checks if a URL or listen address refers to the local machine only
func IsLocalhost(addr string) bool {
	return strings.Contains(addr, "localhost") || strings.Contains(addr, "127.0.0.1") || strings.Contains(addr, "[::1]")
}
