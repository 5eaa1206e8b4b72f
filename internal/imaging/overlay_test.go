package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseAccent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"with hash", "#FF69B4", color.NRGBA{255, 105, 180, 255}, false},
		{"lowercase no hash", "00ff7f", color.NRGBA{0, 255, 127, 255}, false},
		{"surrounding space", "  #123456 ", color.NRGBA{0x12, 0x34, 0x56, 255}, false},
		{"shorthand", "#fff", color.NRGBA{}, true},
		{"alpha form", "#ff69b4cc", color.NRGBA{}, true},
		{"not hex", "#gggggg", color.NRGBA{}, true},
		{"empty", "", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAccent(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAccent(%q) should fail, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAccent(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAccent(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAccentOrDefault(t *testing.T) {
	if got := AccentOrDefault(""); got != DefaultAccent {
		t.Errorf("empty: got %v, want default", got)
	}
	if got := AccentOrDefault("bogus"); got != DefaultAccent {
		t.Errorf("invalid: got %v, want default", got)
	}
	if got := AccentOrDefault("#000000"); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("black: got %v", got)
	}
}

func TestHexString(t *testing.T) {
	if got := HexString(DefaultAccent); got != "#FF69B4" {
		t.Errorf("HexString: got %q, want #FF69B4", got)
	}
}

func TestDrawBoxes(t *testing.T) {
	src := createInMemoryImage(50, 50, color.White)
	accent := color.NRGBA{0, 200, 0, 255}

	out := DrawBoxes(src, []image.Rectangle{image.Rect(10, 10, 30, 20)}, accent)

	tests := []struct {
		name   string
		x, y   int
		stroke bool
	}{
		{"top-left corner", 10, 10, true},
		{"second stroke row", 15, 11, true},
		{"bottom edge", 20, 19, true},
		{"right edge", 29, 15, true},
		{"inner right stroke", 28, 15, true},
		{"interior", 20, 15, false},
		{"outside left", 9, 15, false},
		{"outside bottom", 20, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := out.NRGBAAt(tt.x, tt.y)
			if tt.stroke && c != accent {
				t.Errorf("(%d,%d): got %v, want accent", tt.x, tt.y, c)
			}
			if !tt.stroke && c != (color.NRGBA{255, 255, 255, 255}) {
				t.Errorf("(%d,%d): got %v, want white", tt.x, tt.y, c)
			}
		})
	}
}

func TestDrawBoxes_DoesNotMutateInput(t *testing.T) {
	src := createInMemoryImage(20, 20, color.White)
	_ = DrawBoxes(src, []image.Rectangle{image.Rect(0, 0, 20, 20)}, DefaultAccent)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if src.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				t.Fatalf("input pixel (%d,%d) changed", x, y)
			}
		}
	}
}

func TestDrawBoxes_GrayInput(t *testing.T) {
	src := createGray(30, 30, 0)
	out := DrawBoxes(src, []image.Rectangle{image.Rect(5, 5, 15, 15)}, DefaultAccent)

	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 30 {
		t.Fatalf("dimensions: got %v, want 30x30", out.Bounds())
	}
	if c := out.NRGBAAt(5, 5); c != DefaultAccent {
		t.Errorf("stroke pixel on gray input: got %v, want accent", c)
	}
	if c := out.NRGBAAt(10, 10); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("interior pixel: got %v, want black", c)
	}
}

func TestDrawBoxes_ClipsAndSkips(t *testing.T) {
	src := createInMemoryImage(10, 10, color.White)
	boxes := []image.Rectangle{
		image.Rect(5, 5, 40, 40), // runs off the image
		image.Rect(3, 3, 3, 8),   // zero width
		{},
	}

	out := DrawBoxes(src, boxes, DefaultAccent)

	if c := out.NRGBAAt(5, 9); c != DefaultAccent {
		t.Errorf("clipped box left edge: got %v, want accent", c)
	}
	if c := out.NRGBAAt(3, 5); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("empty box should not draw, got %v", c)
	}
}

func TestDrawBoxes_NoBoxes(t *testing.T) {
	src := createPatternImage(12, 12)
	out := DrawBoxes(src, nil, DefaultAccent)
	if out.NRGBAAt(2, 2) != (color.NRGBA{255, 0, 0, 255}) {
		t.Error("DrawBoxes without boxes should return an unchanged copy")
	}
}
