package web

import "strings"

// Theme is a cosmetic palette for the page. It never affects processing
// except through Accent, which is the default box colour.
type Theme struct {
	Name       string
	Label      string
	Background string
	Panel      string
	Ink        string
	Accent     string
	Sticker    string
}

var themes = []Theme{
	{Name: "kawaii", Label: "Kawaii", Background: "#FFF0F6", Panel: "#FFFFFF", Ink: "#3A2E39", Accent: "#FF69B4", Sticker: "🌸"},
	{Name: "mint", Label: "Mint", Background: "#EEFBF4", Panel: "#FFFFFF", Ink: "#1F3B2D", Accent: "#3CB371", Sticker: "🍃"},
	{Name: "night", Label: "Night", Background: "#1E1B2E", Panel: "#2A2640", Ink: "#F1ECFF", Accent: "#C084FC", Sticker: "🌙"},
}

// Stickers are the decorative glyphs offered on the page.
var Stickers = []string{"🌸", "🎀", "🍓", "🧁", "🐱", "⭐", "🌙", "🍃"}

// Themes returns the available themes in menu order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByName returns the named theme, or the first one when name is unknown.
func ThemeByName(name string) Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

func validSticker(s string) bool {
	for _, v := range Stickers {
		if v == s {
			return true
		}
	}
	return false
}
