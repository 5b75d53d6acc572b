// Package ui provides the visual styling for the pahani terminal client.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, shared by both modes.
var (
	Destructive = lipgloss.Color("#e53935") // red
	Success     = lipgloss.Color("#43a047") // green
	Warning     = lipgloss.Color("#FFC107") // amber
	Info        = lipgloss.Color("#2196F3") // blue
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#1e5aa8"),
		Accent:     lipgloss.Color("#2e7d32"),
		Muted:      lipgloss.Color("#6b7280"),
		Border:     lipgloss.Color("#d6dae0"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Primary:    lipgloss.Color("#64b5f6"),
		Accent:     lipgloss.Color("#81c784"),
		Muted:      lipgloss.Color("#8a93a2"),
		Border:     lipgloss.Color("#2a3850"),
		IsDark:     true,
	}
}

// ThemeByName resolves a configured theme name, auto-detecting when empty.
func ThemeByName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		if os.Getenv("PAHANI_DARK_MODE") == "1" {
			return DarkTheme()
		}
		return LightTheme()
	}
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	Bold  lipgloss.Style
	Muted lipgloss.Style

	Label       lipgloss.Style
	FieldActive lipgloss.Style
	FieldEmpty  lipgloss.Style

	BannerSuccess lipgloss.Style
	BannerWarning lipgloss.Style
	BannerError   lipgloss.Style

	Modal lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	banner := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MarginTop(1)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
		Content: lipgloss.NewStyle().Padding(0, 1),

		Bold:  lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		Muted: lipgloss.NewStyle().Foreground(theme.Muted),

		Label: lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		FieldActive: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		FieldEmpty: lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),

		BannerSuccess: banner.BorderForeground(Success).Foreground(Success),
		BannerWarning: banner.BorderForeground(Warning).Foreground(Warning),
		BannerError:   banner.BorderForeground(Destructive).Foreground(Destructive),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),
	}
}
