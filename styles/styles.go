package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/sammcj/hfscout/config"
	"github.com/sammcj/hfscout/core"
)

var (
	currentTheme *config.Theme
	themeMutex   sync.RWMutex
)

// InitTheme initialises the current theme
func InitTheme(theme *config.Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = theme
}

// GetTheme returns the current theme, or the dark default before InitTheme
func GetTheme() *config.Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	if currentTheme == nil {
		t := config.DarkNeonTheme
		return &t
	}
	return currentTheme
}

// Header styles
func HeaderStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.HeaderForeground)).
		Bold(true).
		MarginBottom(1)
}

func BoxStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.GetColour(theme.Colours.HeaderBorder)).
		Padding(0, 1)
}

func SelectedItemStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Background(theme.GetColour(theme.Colours.SelectedBg)).
		Foreground(theme.GetColour(theme.Colours.Selected)).
		Bold(true)
}

func MutedStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.Muted))
}

// VRAMStyle colours a requirement against the available budget. A budget of 0 means unknown.
func VRAMStyle(vram, budget float64) lipgloss.Style {
	theme := GetTheme()
	switch {
	case budget <= 0:
		return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.VRAMUnknown))
	case vram > budget:
		return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.VRAMExceeds))
	default:
		return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.VRAMWithin))
	}
}

// ScoreStyle colours a score by the share of outOf it reaches
func ScoreStyle(score, outOf int) lipgloss.Style {
	theme := GetTheme()
	if outOf <= 0 {
		outOf = 100
	}
	ratio := float64(score) / float64(outOf)
	switch {
	case ratio >= 0.75:
		return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.ScoreHigh)).Bold(true)
	case ratio >= 0.5:
		return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.ScoreMid))
	default:
		return lipgloss.NewStyle().Foreground(theme.GetColour(theme.Colours.ScoreLow))
	}
}

func LicenseStyle(status core.LicenseStatus) lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().Foreground(theme.GetLicenseColour(string(status)))
}

func FamilyStyle(family string) lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().Foreground(theme.GetFamilyColour(family))
}

// Text input styles
func PromptStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.PromptText))
}

func InputTextStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.InputText))
}

func PlaceholderStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.PlaceholderText))
}

func CursorStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Background(theme.GetColour(theme.Colours.CursorBg))
}

// Message styles
func ErrorStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.Error))
}

func SuccessStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.Success))
}

func InfoStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.Info))
}

func WarningStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.Warning))
}

// Help styles
func HelpTextStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Foreground(theme.GetColour(theme.Colours.HelpText))
}
