package config

import "strings"

// Theme is the UI appearance preference exposed to clients.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// KnownThemes lists every value the appearance setting accepts.
var KnownThemes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

// HonoredThemes lists the values the client currently renders. Anything
// outside this set resolves to ThemeLight.
var HonoredThemes = []Theme{ThemeLight}

// ParseTheme maps a raw setting onto a known theme, defaulting to light.
func ParseTheme(raw string) Theme {
	t := Theme(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range KnownThemes {
		if t == known {
			return t
		}
	}
	return ThemeLight
}

// Effective returns the theme the client should actually apply.
func (t Theme) Effective() Theme {
	for _, h := range HonoredThemes {
		if t == h {
			return t
		}
	}
	return ThemeLight
}
