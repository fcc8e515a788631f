package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/sammcj/hfscout/utils"
)

// Theme represents a colour scheme for tables, reports and the wizard
type Theme struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Colours     ThemeColours      `json:"colours"`
	Family      map[string]string `json:"family"`  // Model family-specific colours
	License     map[string]string `json:"license"` // Colours keyed by license status
}

// ThemeColours contains all the colour definitions
type ThemeColours struct {
	// General UI elements
	HeaderForeground string `json:"header_foreground"`
	HeaderBorder     string `json:"header_border"`
	Selected         string `json:"selected"`
	SelectedBg       string `json:"selected_bg"`
	Muted            string `json:"muted"`

	// Text input elements
	PromptText      string `json:"prompt_text"`
	InputText       string `json:"input_text"`
	PlaceholderText string `json:"placeholder_text"`
	CursorBg        string `json:"cursor_bg"`

	// Status message colours
	Error   string `json:"error"`
	Success string `json:"success"`
	Info    string `json:"info"`
	Warning string `json:"warning"`

	HelpText string `json:"help_text"`

	// VRAM estimation indicators
	VRAMExceeds string `json:"vram_exceeds"` // For VRAM usage exceeding available memory
	VRAMWithin  string `json:"vram_within"`  // For VRAM usage within available memory
	VRAMUnknown string `json:"vram_unknown"` // For VRAM usage when available memory is unknown

	// Score bars, best to worst
	ScoreHigh string `json:"score_high"`
	ScoreMid  string `json:"score_mid"`
	ScoreLow  string `json:"score_low"`
}

// DarkNeonTheme is the default dark theme with neon accents
var DarkNeonTheme = Theme{
	Name:        "dark-neon",
	Description: "Default dark theme with neon accents",
	Colours: ThemeColours{
		HeaderForeground: "#8B00FF",
		HeaderBorder:     "#8B21AA",
		Selected:         "#FFFFFF",
		SelectedBg:       "#6600CC",
		Muted:            "#CBCCBC",

		PromptText:      "#8B00FF",
		InputText:       "#8B00FF",
		PlaceholderText: "#6600CC",
		CursorBg:        "#4B0082",

		Error:   "#FF0000",
		Success: "#8B008B",
		Info:    "#8B6914",
		Warning: "#FF1493",

		HelpText: "#444444",

		VRAMExceeds: "#BB0000",
		VRAMWithin:  "#006400",
		VRAMUnknown: "#8B4513",

		ScoreHigh: "#00D787",
		ScoreMid:  "#FFAF00",
		ScoreLow:  "#FF005F",
	},
	Family: map[string]string{
		"llama":       "#FF5588",
		"codellama":   "#FF55CC",
		"mistral":     "#DD55FF",
		"mixtral":     "#BB55FF",
		"gemma":       "#9955FF",
		"phi":         "#5555FF",
		"qwen":        "#1177FF",
		"placeholder": "#11FFFF",
	},
	License: map[string]string{
		"permissive":     "#00D787",
		"responsible":    "#5FAFFF",
		"restricted":     "#FFAF00",
		"non-commercial": "#FF005F",
		"unknown":        "#8A8A8A",
	},
}

// LightTheme is the light theme with neon accents
var LightTheme = Theme{
	Name:        "light-neon",
	Description: "Light theme with neon accents",
	Colours: ThemeColours{
		HeaderForeground: "238",
		HeaderBorder:     "237",
		Selected:         "#FFE5FF",
		SelectedBg:       "#4F0082",
		Muted:            "#433444",

		PromptText:      "#8B00FF",
		InputText:       "#4B0082",
		PlaceholderText: "#6600CC",
		CursorBg:        "#4B0082",

		Error:   "#FF0000",
		Success: "#8B008B",
		Info:    "92",
		Warning: "#FF1493",

		HelpText: "#444444",

		VRAMExceeds: "#8B0000",
		VRAMWithin:  "#006400",
		VRAMUnknown: "#8B4513",

		ScoreHigh: "#008700",
		ScoreMid:  "#AF5F00",
		ScoreLow:  "#AF0000",
	},
	Family: map[string]string{
		"llama":       "#FF0055",
		"codellama":   "#FF0099",
		"mistral":     "#CC00FF",
		"mixtral":     "#AA00FF",
		"gemma":       "#8800FF",
		"phi":         "#4400FF",
		"qwen":        "#0044FF",
		"placeholder": "#00FFFF",
	},
	License: map[string]string{
		"permissive":     "#008700",
		"responsible":    "#005FAF",
		"restricted":     "#AF5F00",
		"non-commercial": "#AF0000",
		"unknown":        "#585858",
	},
}

// BuiltinThemes contains all the built-in themes
var BuiltinThemes = map[string]Theme{
	"dark-neon":  DarkNeonTheme,
	"light-neon": LightTheme,
}

// SaveThemes writes the built-in themes to the user's themes directory, filling in any
// colours missing from existing theme files.
func SaveThemes() error {
	return SaveThemesTo(utils.GetThemesDir())
}

func SaveThemesTo(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	for themeName, builtinTheme := range BuiltinThemes {
		themePath := filepath.Join(dir, themeName+".json")

		data, err := os.ReadFile(themePath)
		switch {
		case os.IsNotExist(err):
			if err := writeTheme(themePath, builtinTheme); err != nil {
				return fmt.Errorf("failed to write new theme %s: %w", themeName, err)
			}
		case err != nil:
			return fmt.Errorf("error checking theme file %s: %w", themeName, err)
		default:
			var theme Theme
			if err := json.Unmarshal(data, &theme); err != nil {
				// Move invalid JSON aside and start over from the built-in
				if err := os.Rename(themePath, themePath+".borked"); err != nil {
					return fmt.Errorf("failed to move invalid theme file %s to .borked: %w", themeName, err)
				}
				theme = builtinTheme
			} else if !theme.fillMissing(builtinTheme) {
				continue
			}
			if err := writeTheme(themePath, theme); err != nil {
				return fmt.Errorf("failed to write updated theme %s: %w", themeName, err)
			}
		}
	}
	return nil
}

func writeTheme(path string, theme Theme) error {
	themeJSON, err := json.MarshalIndent(theme, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, themeJSON, 0644)
}

// fillMissing copies every colour t lacks from base and reports whether anything changed
func (t *Theme) fillMissing(base Theme) bool {
	c, b := &t.Colours, base.Colours
	fields := []struct {
		dst *string
		src string
	}{
		{&c.HeaderForeground, b.HeaderForeground},
		{&c.HeaderBorder, b.HeaderBorder},
		{&c.Selected, b.Selected},
		{&c.SelectedBg, b.SelectedBg},
		{&c.Muted, b.Muted},
		{&c.PromptText, b.PromptText},
		{&c.InputText, b.InputText},
		{&c.PlaceholderText, b.PlaceholderText},
		{&c.CursorBg, b.CursorBg},
		{&c.Error, b.Error},
		{&c.Success, b.Success},
		{&c.Info, b.Info},
		{&c.Warning, b.Warning},
		{&c.HelpText, b.HelpText},
		{&c.VRAMExceeds, b.VRAMExceeds},
		{&c.VRAMWithin, b.VRAMWithin},
		{&c.VRAMUnknown, b.VRAMUnknown},
		{&c.ScoreHigh, b.ScoreHigh},
		{&c.ScoreMid, b.ScoreMid},
		{&c.ScoreLow, b.ScoreLow},
	}

	updated := false
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.src
			updated = true
		}
	}
	if fillMap(&t.Family, base.Family) {
		updated = true
	}
	if fillMap(&t.License, base.License) {
		updated = true
	}
	return updated
}

func fillMap(dst *map[string]string, src map[string]string) bool {
	if *dst == nil {
		*dst = make(map[string]string, len(src))
	}
	updated := false
	for k, v := range src {
		if _, ok := (*dst)[k]; !ok {
			(*dst)[k] = v
			updated = true
		}
	}
	return updated
}

// LoadTheme loads a theme from the user's themes directory
func LoadTheme(name string) (*Theme, error) {
	return LoadThemeFrom(utils.GetThemesDir(), name)
}

// LoadThemeFrom loads a theme by name from dir. Built-in themes are written out first, and
// a built-in whose file is corrupt is returned as compiled in.
func LoadThemeFrom(dir, name string) (*Theme, error) {
	builtin, isBuiltin := BuiltinThemes[name]
	if isBuiltin {
		if err := SaveThemesTo(dir); err != nil {
			return nil, fmt.Errorf("failed to ensure themes exist: %w", err)
		}
	}

	themePath := filepath.Join(dir, name+".json")
	themeData, err := os.ReadFile(themePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme Theme
	if err := json.Unmarshal(themeData, &theme); err != nil {
		if renameErr := os.Rename(themePath, themePath+".borked"); renameErr != nil {
			return nil, fmt.Errorf("failed to move invalid theme file to .borked: %w", renameErr)
		}
		if isBuiltin {
			return &builtin, nil
		}
		return nil, fmt.Errorf("failed to parse theme %s: %w", name, err)
	}
	theme.fillMissing(DarkNeonTheme)

	return &theme, nil
}

// GetColour returns a lipgloss.Color from a theme colour string
func (t *Theme) GetColour(colour string) lipgloss.Color {
	return lipgloss.Color(colour)
}

// GetFamilyColour returns the colour for a model family
func (t *Theme) GetFamilyColour(family string) lipgloss.Color {
	if colour, ok := t.Family[family]; ok {
		return t.GetColour(colour)
	}
	return t.GetColour(t.Family["placeholder"])
}

// GetLicenseColour returns the colour for a license status
func (t *Theme) GetLicenseColour(status string) lipgloss.Color {
	if colour, ok := t.License[status]; ok {
		return t.GetColour(colour)
	}
	return t.GetColour(t.License["unknown"])
}
