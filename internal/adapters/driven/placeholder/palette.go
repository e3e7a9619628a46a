package placeholder

// Colors are the two gradient stops of a placeholder background.
type Colors struct {
	Background string
	Accent     string
}

// DefaultCategory is the palette key used for categories without an entry.
const DefaultCategory = "default"

// TextColor is used for the border, label and caption.
const TextColor = "#ffd700"

// Palette maps a slot category to its colours. It always contains DefaultCategory.
type Palette map[string]Colors

// DefaultPalette is the brand palette.
var DefaultPalette = Palette{
	"about":        {Background: "#1a1a2e", Accent: "#16213e"},
	"portfolio":    {Background: "#16213e", Accent: "#0f3460"},
	"logos":        {Background: "#0f3460", Accent: "#16213e"},
	"testimonials": {Background: "#0a0a0f", Accent: "#1a1a2e"},
	"videos":       {Background: "#1a1a2e", Accent: "#0a0a0f"},
	"hero":         {Background: "#0a0a0f", Accent: "#0f3460"},
	"services":     {Background: "#16213e", Accent: "#1a1a2e"},
	"team":         {Background: "#1a1a2e", Accent: "#0f3460"},
	"default":      {Background: "#16213e", Accent: "#1a1a2e"},
}

// Lookup returns the colours for category, falling back to the default entry.
// A palette without a default entry falls back to DefaultPalette's.
func (p Palette) Lookup(category string) Colors {
	if c, ok := p[category]; ok {
		return c
	}
	if c, ok := p[DefaultCategory]; ok {
		return c
	}
	return DefaultPalette[DefaultCategory]
}
