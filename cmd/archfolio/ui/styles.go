// Package ui provides the visual styling for the archfolio terminal editor.
// Colors follow a drafting-table palette with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#2b2b2b") // Graphite
	LightPrimary    = lipgloss.Color("#3d4a5c") // Slate
	LightAccent     = lipgloss.Color("#c0643b") // Terracotta
	LightMuted      = lipgloss.Color("#8a8f98") // Concrete
	LightBorder     = lipgloss.Color("#d4d0c8") // Limestone

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#ece8e1") // Paper
	DarkPrimary    = lipgloss.Color("#e0a36f") // Warm timber
	DarkAccent     = lipgloss.Color("#7fa7c9") // Blueprint
	DarkMuted      = lipgloss.Color("#7d828b")
	DarkBorder     = lipgloss.Color("#3e434b")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#d64541")
	Success     = lipgloss.Color("#6a9a4f")
	Warning     = lipgloss.Color("#e0b03c")
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

// ThemeFor resolves a configured theme name. "dark" and "light" are explicit;
// anything else falls back to DetectTheme.
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses from the terminal, defaulting to light mode.
func DetectTheme() Theme {
	if os.Getenv("ARCHFOLIO_DARK_MODE") == "1" {
		return DarkTheme()
	}

	// COLORFGBG is "foreground;background"; ANSI 0-6 and 8 are dark backgrounds.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}

	return LightTheme()
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style
	Pane   lipgloss.Style
	Modal  lipgloss.Style

	// Text
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Components
	Spinner  lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Selected lipgloss.Style
	Dragging lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Section: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			MarginTop(1),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Focused: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Button: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Disabled: lipgloss.NewStyle().
			Background(theme.Border).
			Foreground(theme.Muted).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Dragging: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Reverse(true),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
