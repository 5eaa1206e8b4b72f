package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultAccent is the stroke colour used when no accent is configured (#FF69B4).
var DefaultAccent = color.NRGBA{R: 255, G: 105, B: 180, A: 255}

// StrokeWidth is the outline thickness of overlay rectangles in pixels.
const StrokeWidth = 2

// ParseAccent parses a 6-digit hex colour such as "#FF69B4" or "ff69b4".
//
// Shorthand and alpha forms are rejected; callers typically fall back to
// DefaultAccent on error.
func ParseAccent(hex string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid accent color %q: want 6 hex digits", hex)
	}
	c, err := colorful.Hex("#" + strings.ToLower(h))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid accent color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// AccentOrDefault parses hex and returns DefaultAccent when it is empty or invalid.
func AccentOrDefault(hex string) color.NRGBA {
	if hex == "" {
		return DefaultAccent
	}
	c, err := ParseAccent(hex)
	if err != nil {
		return DefaultAccent
	}
	return c
}

// HexString formats c as "#RRGGBB".
func HexString(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// DrawBoxes draws unfilled rectangles onto a copy of img.
//
// Parameters:
//   - img: Source image, single- or multi-channel. It is never modified.
//   - boxes: Rectangles in image pixel coordinates, Max exclusive.
//   - accent: Stroke colour.
//
// Returns a new opaque 3-channel image with the same dimensions as img. Each
// rectangle gets a StrokeWidth-pixel outline drawn inside its edges. Parts of
// a rectangle outside the image are clipped; empty rectangles are skipped.
func DrawBoxes(img image.Image, boxes []image.Rectangle, accent color.NRGBA) *image.NRGBA {
	result := toNRGBA(img)
	bounds := result.Bounds()
	offset := img.Bounds().Min
	accent.A = 255

	for _, box := range boxes {
		r := box.Sub(offset).Add(bounds.Min)
		if r.Empty() {
			continue
		}
		for t := 0; t < StrokeWidth; t++ {
			inset := image.Rect(r.Min.X+t, r.Min.Y+t, r.Max.X-t, r.Max.Y-t)
			if inset.Empty() {
				break
			}
			strokeRect(result, inset, accent)
		}
	}

	return result
}

// strokeRect sets the one-pixel border of r, clipped to the image bounds.
func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	bounds := img.Bounds()
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetNRGBA(x, y, c)
		}
	}

	for x := r.Min.X; x < r.Max.X; x++ {
		set(x, r.Min.Y)
		set(x, r.Max.Y-1)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		set(r.Min.X, y)
		set(r.Max.X-1, y)
	}
}
