// Package ui provides the visual styling for the shellkit front-ends.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1b1f24")
	LightPrimary    = lipgloss.Color("#00599c") // Go blue
	LightAccent     = lipgloss.Color("#007d9c")
	LightMuted      = lipgloss.Color("#6a737d")
	LightBorder     = lipgloss.Color("#d0d7de")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#e6edf3")
	DarkPrimary    = lipgloss.Color("#00add8") // Gopher blue
	DarkAccent     = lipgloss.Color("#5dc9e2")
	DarkMuted      = lipgloss.Color("#8b949e")
	DarkBorder     = lipgloss.Color("#30363d")

	// DefaultError is used when no error color is configured.
	DefaultError = lipgloss.Color("#cc0000")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks the dark theme when SHELLKIT_DARK_MODE=1 or COLORFGBG
// reports a dark background, and the light theme otherwise.
func DetectTheme() Theme {
	if os.Getenv("SHELLKIT_DARK_MODE") == "1" {
		return DarkTheme()
	}

	// Format is "foreground;background"; ANSI 0-6 and 8 are dark
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// Styles holds the styled components of the shell views.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style
	Output lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Muted  lipgloss.Style
}

// NewStyles creates the styles for theme. errorColor is a lipgloss color
// string; empty selects DefaultError.
func NewStyles(theme Theme, errorColor string) Styles {
	errColor := DefaultError
	if errorColor != "" {
		errColor = lipgloss.Color(errorColor)
	}

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Output: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Error: lipgloss.NewStyle().
			Foreground(errColor),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the detected theme and the default error
// color.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme(), "")
}
