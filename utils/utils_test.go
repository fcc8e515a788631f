package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetHomeDir(t *testing.T) {
	expected := homeDir()
	got := GetHomeDir()
	if got != expected {
		t.Errorf("GetHomeDir() = %v, want %v", got, expected)
	}
}

func TestGetConfigDir(t *testing.T) {
	expected := filepath.Join(homeDir(), ".config", "hfscout")
	got := GetConfigDir()
	if got != expected {
		t.Errorf("GetConfigDir() = %v, want %v", got, expected)
	}
}

func TestGetConfigPath(t *testing.T) {
	expected := filepath.Join(homeDir(), ".config", "hfscout", "config.json")
	got := GetConfigPath()
	if got != expected {
		t.Errorf("GetConfigPath() = %v, want %v", got, expected)
	}
}

func TestGetThemesDir(t *testing.T) {
	expected := filepath.Join(homeDir(), ".config", "hfscout", "themes")
	if got := GetThemesDir(); got != expected {
		t.Errorf("GetThemesDir() = %v, want %v", got, expected)
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"~", homeDir()},
		{"~/logs/a.log", filepath.Join(homeDir(), "logs", "a.log")},
		{"/var/log/a.log", "/var/log/a.log"},
		{"relative/a.log", "relative/a.log"},
		{"~other/a.log", "~other/a.log"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandHome(tt.in); got != tt.want {
				t.Errorf("ExpandHome(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:8080", true},
		{"localhost:8080", true},
		{"[::1]:8080", true},
		{":8080", false},
		{"0.0.0.0:8080", false},
	}
	for _, tt := range tests {
		if got := IsLocalhost(tt.addr); got != tt.want {
			t.Errorf("IsLocalhost(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func homeDir() string {
	// Get User Home directory (simplified). Refer to "os/file"
	var env string
	if runtime.GOOS == "windows" {
		env = "USERPROFILE"
	} else {
		env = "HOME"
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return ""
}
