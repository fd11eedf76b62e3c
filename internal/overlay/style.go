package overlay

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style controls how detections are drawn.
type Style struct {
	Color         color.RGBA
	LineThickness int     // Box outline width in pixels
	FontScale     float64 // 1.0 ~= 30px em
	TextThickness int     // Label stroke passes, offset 1px each
	LabelOffset   int     // Baseline distance above the box top
	LabelPrefix   string
}

// DefaultStyle returns green boxes, 2px lines, "dog 0.87" labels at 0.7 scale.
func DefaultStyle() Style {
	return Style{
		Color:         color.RGBA{R: 0, G: 255, B: 0, A: 255},
		LineThickness: 2,
		FontScale:     0.7,
		TextThickness: 2,
		LabelOffset:   10,
		LabelPrefix:   "dog",
	}
}

// Validate rejects styles that cannot be rendered.
func (s Style) Validate() error {
	if s.LineThickness < 1 {
		return fmt.Errorf("line thickness must be >= 1, got %d", s.LineThickness)
	}
	if s.TextThickness < 1 {
		return fmt.Errorf("text thickness must be >= 1, got %d", s.TextThickness)
	}
	if s.FontScale <= 0 {
		return fmt.Errorf("font scale must be > 0, got %g", s.FontScale)
	}
	return nil
}

// ParseColor parses "#rrggbb", "#rgb" or the same without the leading '#'.
func ParseColor(hex string) (color.RGBA, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
