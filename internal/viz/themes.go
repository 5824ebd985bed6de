package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/parallax/internal/sim"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Sun    lipgloss.Color
	Earth  lipgloss.Color
	StarX  lipgloss.Color
	StarY  lipgloss.Color
	Orbit  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Faint  lipgloss.Color
	Border lipgloss.Color
}

// Star returns the colour of one of the two target stars.
func (t Theme) Star(id sim.StarID) lipgloss.Color {
	if id == sim.StarX {
		return t.StarX
	}
	return t.StarY
}

// Available themes
var (
	ThemeNight = Theme{
		Name:   "night",
		Sun:    lipgloss.Color("#ffd700"),
		Earth:  lipgloss.Color("#4fc3f7"),
		StarX:  lipgloss.Color("#ffeb3b"),
		StarY:  lipgloss.Color("#ff9800"),
		Orbit:  lipgloss.Color("#2f6f8f"),
		Accent: lipgloss.Color("#ff5252"),
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#7a7a8c"),
		Faint:  lipgloss.Color("#3c3c4a"),
		Border: lipgloss.Color("#444466"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Sun:    lipgloss.Color("#ffff00"),
		Earth:  lipgloss.Color("#00ffff"),
		StarX:  lipgloss.Color("#ff00ff"),
		StarY:  lipgloss.Color("#ff8800"),
		Orbit:  lipgloss.Color("#008888"),
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Faint:  lipgloss.Color("#333333"),
		Border: lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Sun:    lipgloss.Color("#ccffcc"),
		Earth:  lipgloss.Color("#00ff00"),
		StarX:  lipgloss.Color("#88ff88"),
		StarY:  lipgloss.Color("#00cc00"),
		Orbit:  lipgloss.Color("#007700"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Faint:  lipgloss.Color("#003300"),
		Border: lipgloss.Color("#00aa00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Sun:    lipgloss.Color("#ffd700"),
		Earth:  lipgloss.Color("#00a8cc"),
		StarX:  lipgloss.Color("#e0f0ff"),
		StarY:  lipgloss.Color("#ffcc00"),
		Orbit:  lipgloss.Color("#0077be"),
		Accent: lipgloss.Color("#00ff88"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Faint:  lipgloss.Color("#1d3d55"),
		Border: lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Sun:    lipgloss.Color("#feca57"),
		Earth:  lipgloss.Color("#48dbfb"),
		StarX:  lipgloss.Color("#ff9ff3"),
		StarY:  lipgloss.Color("#ff6b6b"),
		Orbit:  lipgloss.Color("#8b6b8c"),
		Accent: lipgloss.Color("#ff4757"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Faint:  lipgloss.Color("#4a344b"),
		Border: lipgloss.Color("#ff6b6b"),
	}

	// Default theme
	CurrentTheme = ThemeNight

	// All available themes
	Themes = []Theme{
		ThemeNight,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// HasTheme reports whether name is a built-in theme.
func HasTheme(name string) bool {
	for _, t := range Themes {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
