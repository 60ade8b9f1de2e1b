package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the track view.
type Theme struct {
	Name   string
	Accent lipgloss.Color
	Body1  lipgloss.Color
	Body2  lipgloss.Color
	Wall   lipgloss.Color
	Track  lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Accent: lipgloss.Color("#ff00ff"),
		Body1:  lipgloss.Color("#00ffff"),
		Body2:  lipgloss.Color("#ffff00"),
		Wall:   lipgloss.Color("#ff4444"),
		Track:  lipgloss.Color("#444466"),
		Muted:  lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Accent: lipgloss.Color("#88ff88"),
		Body1:  lipgloss.Color("#00ff00"),
		Body2:  lipgloss.Color("#00cc00"),
		Wall:   lipgloss.Color("#ffff00"),
		Track:  lipgloss.Color("#005500"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Accent: lipgloss.Color("#ffd700"),
		Body1:  lipgloss.Color("#00a8cc"),
		Body2:  lipgloss.Color("#ff9ff3"),
		Wall:   lipgloss.Color("#ff4444"),
		Track:  lipgloss.Color("#4488aa"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns the named theme, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after cur in Themes, wrapping around.
func NextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
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
