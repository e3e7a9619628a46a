// Package placeholder synthesises SVG stand-ins for assets that could not be
// resolved locally or remotely.
package placeholder

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// Spec is everything that influences the rendered bytes.
type Spec struct {
	Label      string
	Category   string
	Dimensions domain.Dimensions
}

// Render returns the SVG for spec using DefaultPalette.
// Identical specs always produce identical bytes.
func Render(spec Spec) []byte {
	return DefaultPalette.Render(spec)
}

// Render returns the SVG for spec using the palette's colours.
func (p Palette) Render(spec Spec) []byte {
	c := p.Lookup(spec.Category)
	w, h := spec.Dimensions.Width, spec.Dimensions.Height
	label := html.EscapeString(spec.Label)

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n", w, h, w, h)
	b.WriteString(`  <defs>` + "\n")
	b.WriteString(`    <linearGradient id="bg" x1="0%" y1="0%" x2="100%" y2="100%">` + "\n")
	fmt.Fprintf(&b, `      <stop offset="0%%" stop-color="%s"/>`+"\n", c.Background)
	fmt.Fprintf(&b, `      <stop offset="100%%" stop-color="%s"/>`+"\n", c.Accent)
	b.WriteString(`    </linearGradient>` + "\n")
	b.WriteString(`  </defs>` + "\n")
	b.WriteString(`  <rect width="100%" height="100%" fill="url(#bg)"/>` + "\n")
	fmt.Fprintf(&b, `  <rect x="2" y="2" width="%d" height="%d" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="5,5"/>`+"\n",
		max(w-4, 0), max(h-4, 0), TextColor)
	fmt.Fprintf(&b, `  <text x="50%%" y="50%%" font-family="Arial, sans-serif" font-size="14" fill="%s" text-anchor="middle" dy=".3em">%s</text>`+"\n",
		TextColor, label)
	fmt.Fprintf(&b, `  <text x="50%%" y="70%%" font-family="Arial, sans-serif" font-size="10" fill="%s" text-anchor="middle" opacity="0.7">%s</text>`+"\n",
		TextColor, spec.Dimensions.String())
	b.WriteString(`</svg>` + "\n")
	return b.Bytes()
}

// Ensure Generator implements the interface.
var _ driven.PlaceholderGenerator = (*Generator)(nil)

// Generator writes rendered placeholders through a FileSystem.
type Generator struct {
	fs      driven.FileSystem
	palette Palette
	now     func() time.Time
}

// NewGenerator creates a generator. A nil palette uses DefaultPalette.
func NewGenerator(fs driven.FileSystem, palette Palette) *Generator {
	if palette == nil {
		palette = DefaultPalette
	}
	return &Generator{fs: fs, palette: palette, now: time.Now}
}

// Generate renders the placeholder and writes it atomically to req.TargetPath.
func (g *Generator) Generate(ctx context.Context, req driven.PlaceholderRequest) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := g.palette.Render(Spec{Label: req.Label, Category: req.Category, Dimensions: req.Dimensions})
	err := g.fs.WriteAtomic(req.TargetPath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: placeholder %s: %v", domain.ErrWrite, req.TargetPath, err)
	}
	return map[string]any{
		"format":      "svg",
		"label":       req.Label,
		"width":       req.Dimensions.Width,
		"height":      req.Dimensions.Height,
		"bytes":       int64(len(data)),
		"generatedAt": g.now().UTC().Format(time.RFC3339),
	}, nil
}
