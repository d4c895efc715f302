package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view. Particles keep their own
// colors; the theme covers everything else.
type Theme struct {
	Name     string
	Boundary string
	Cursor   string
	Fallback string
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:     "neon",
		Boundary: "#444466",
		Cursor:   "#ff00ff",
		Fallback: "#ffffff",
		Accent:   lipgloss.Color("#00ffff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666688"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Boundary: "#005500",
		Cursor:   "#88ff88",
		Fallback: "#00ff00",
		Accent:   lipgloss.Color("#00ff00"),
		Text:     lipgloss.Color("#00cc00"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		Boundary: "#888888",
		Cursor:   "#ffffff",
		Fallback: "#cccccc",
		Accent:   lipgloss.Color("#ffffff"),
		Text:     lipgloss.Color("#cccccc"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeNeon, ThemePhosphor, ThemeMono}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
