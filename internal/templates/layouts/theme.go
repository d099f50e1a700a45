package layouts

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	darkText  = "#1a1a1a"
	lightText = "#ffffff"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Theme holds the club colours exposed to the stylesheet as CSS variables.
type Theme struct {
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   "#1f3a5f",
		SecondaryColor: "#f4f6f8",
		AccentColor:    "#e4572e",
	}
}

var (
	themeMu     sync.RWMutex
	activeTheme = DefaultTheme()
)

// SetTheme replaces the site theme. Invalid colours fall back to the defaults.
func SetTheme(theme Theme) {
	defaults := DefaultTheme()
	themeMu.Lock()
	activeTheme = Theme{
		PrimaryColor:   themeColorOrDefault(theme.PrimaryColor, defaults.PrimaryColor),
		SecondaryColor: themeColorOrDefault(theme.SecondaryColor, defaults.SecondaryColor),
		AccentColor:    themeColorOrDefault(theme.AccentColor, defaults.AccentColor),
	}
	themeMu.Unlock()
}

func currentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return activeTheme
}

func IsHexColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

func getThemeCssVars(theme Theme) string {
	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-primary-dark:%s;--theme-on-primary:%s;--theme-secondary:%s;--theme-accent:%s;--theme-on-accent:%s;}",
		theme.PrimaryColor,
		darken(theme.PrimaryColor, 0.25),
		readableOn(theme.PrimaryColor),
		theme.SecondaryColor,
		theme.AccentColor,
		readableOn(theme.AccentColor),
	)
}

// darken blends the colour towards black in Lab space.
func darken(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return c.BlendLab(colorful.Color{}, amount).Clamped().Hex()
}

// readableOn picks dark or light text for a background colour.
func readableOn(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return lightText
	}
	if l, _, _ := c.Lab(); l > 0.6 {
		return darkText
	}
	return lightText
}

func themeColorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !IsHexColor(trimmed) {
		return fallback
	}
	return trimmed
}
