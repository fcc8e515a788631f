package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSaveThemesCreatesBuiltins(t *testing.T) {
	dir := t.TempDir()
	if err := SaveThemesTo(dir); err != nil {
		t.Fatalf("SaveThemesTo() error = %v", err)
	}
	for name := range BuiltinThemes {
		if _, err := os.Stat(filepath.Join(dir, name+".json")); err != nil {
			t.Errorf("theme %s was not written: %v", name, err)
		}
	}
}

func TestSaveThemesFillsMissingColours(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dark-neon.json")
	partial := `{"name":"dark-neon","colours":{"error":"#123456"},"family":{"llama":"#000000"}}`
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	if err := SaveThemesTo(dir); err != nil {
		t.Fatalf("SaveThemesTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var theme Theme
	if err := json.Unmarshal(data, &theme); err != nil {
		t.Fatal(err)
	}
	if theme.Colours.Error != "#123456" {
		t.Errorf("custom colour was overwritten: %s", theme.Colours.Error)
	}
	if theme.Colours.VRAMWithin != DarkNeonTheme.Colours.VRAMWithin {
		t.Errorf("missing colour not filled: %q", theme.Colours.VRAMWithin)
	}
	if theme.Family["llama"] != "#000000" {
		t.Errorf("custom family colour was overwritten: %s", theme.Family["llama"])
	}
	if theme.Family["mistral"] == "" || theme.License["permissive"] == "" {
		t.Error("missing map entries were not filled")
	}
}

func TestLoadThemeRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "light-neon.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	theme, err := LoadThemeFrom(dir, "light-neon")
	if err != nil {
		t.Fatalf("LoadThemeFrom() error = %v", err)
	}
	if theme.Name != "light-neon" {
		t.Errorf("got theme %q", theme.Name)
	}
	if _, err := os.Stat(path + ".borked"); err != nil {
		t.Errorf("corrupt theme was not moved aside: %v", err)
	}
}

func TestLoadCustomTheme(t *testing.T) {
	dir := t.TempDir()
	custom := `{"name":"mine","colours":{"header_foreground":"#ABCDEF"}}`
	if err := os.WriteFile(filepath.Join(dir, "mine.json"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	theme, err := LoadThemeFrom(dir, "mine")
	if err != nil {
		t.Fatalf("LoadThemeFrom() error = %v", err)
	}
	if theme.Colours.HeaderForeground != "#ABCDEF" {
		t.Errorf("HeaderForeground = %s", theme.Colours.HeaderForeground)
	}
	if theme.Colours.Error == "" {
		t.Error("custom theme should inherit missing colours")
	}

	if _, err := LoadThemeFrom(dir, "absent"); err == nil {
		t.Error("loading an absent custom theme should fail")
	}
}

func TestThemeColourLookups(t *testing.T) {
	theme := DarkNeonTheme
	if got := theme.GetFamilyColour("mistral"); got != lipgloss.Color("#DD55FF") {
		t.Errorf("GetFamilyColour(mistral) = %v", got)
	}
	if got := theme.GetFamilyColour("nope"); got != lipgloss.Color(theme.Family["placeholder"]) {
		t.Errorf("GetFamilyColour fallback = %v", got)
	}
	if got := theme.GetLicenseColour("nope"); got != lipgloss.Color(theme.License["unknown"]) {
		t.Errorf("GetLicenseColour fallback = %v", got)
	}
}
