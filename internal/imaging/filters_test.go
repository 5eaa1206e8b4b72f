package imaging

import (
	"image"
	"image/color"
	"testing"
)

func createGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func allGray(img *image.Gray, v uint8) bool {
	for _, p := range img.Pix {
		if p != v {
			return false
		}
	}
	return true
}

func TestInvert(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{255, 128, 0, 255})

	inv := Invert(img)

	c := inv.NRGBAAt(3, 3)
	if c.R != 0 || c.G != 127 || c.B != 255 || c.A != 255 {
		t.Errorf("inverted pixel: got %v, want (0,127,255,255)", c)
	}
	if inv.Bounds().Dx() != 10 || inv.Bounds().Dy() != 10 {
		t.Errorf("dimensions changed: %v", inv.Bounds())
	}
}

func TestInvert_Involution(t *testing.T) {
	src := toNRGBA(createPatternImage(50, 30))
	// Add a gradient so more than the quadrant colours are covered.
	for x := 0; x < 50; x++ {
		src.SetNRGBA(x, 0, color.NRGBA{uint8(x * 5), uint8(255 - x*5), uint8(x), 255})
	}

	twice := Invert(Invert(src))

	if len(twice.Pix) != len(src.Pix) {
		t.Fatalf("pixel buffer length: got %d, want %d", len(twice.Pix), len(src.Pix))
	}
	for i := range src.Pix {
		if twice.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel byte %d: got %d, want %d", i, twice.Pix[i], src.Pix[i])
		}
	}
}

func TestInvert_DoesNotMutateInput(t *testing.T) {
	src := toNRGBA(createInMemoryImage(5, 5, color.White))
	_ = Invert(src)
	if src.NRGBAAt(2, 2) != (color.NRGBA{255, 255, 255, 255}) {
		t.Error("Invert modified its input")
	}
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 128},
		{"pure red", color.RGBA{255, 0, 0, 255}, 76},
		{"pure green", color.RGBA{0, 255, 0, 255}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := Grayscale(createInMemoryImage(4, 4, tt.c))
			if got := gray.GrayAt(1, 1).Y; got != tt.want {
				t.Errorf("luminance: got %d, want %d", got, tt.want)
			}
			if Channels(gray) != 1 {
				t.Error("Grayscale should produce a single-channel image")
			}
		})
	}
}

func TestAutocontrast_Stretch(t *testing.T) {
	img := createGray(10, 1, 100)
	for x := 5; x < 10; x++ {
		img.Pix[x] = 150
	}

	out, ok := Autocontrast(img, 0).(*image.Gray)
	if !ok {
		t.Fatal("Autocontrast should keep gray input single-channel")
	}
	if out.Pix[0] != 0 {
		t.Errorf("darkest value: got %d, want 0", out.Pix[0])
	}
	if out.Pix[9] != 255 {
		t.Errorf("lightest value: got %d, want 255", out.Pix[9])
	}
	if img.Pix[0] != 100 {
		t.Error("Autocontrast modified its input")
	}
}

func TestAutocontrast_ConstantImageUnchanged(t *testing.T) {
	for _, v := range []uint8{0, 77, 255} {
		img := createGray(100, 50, v)
		out := Autocontrast(img, 0).(*image.Gray)
		if !allGray(out, v) {
			t.Errorf("constant %d image changed by autocontrast", v)
		}
	}
}

func TestAutocontrast_Color(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{50, 10, 200, 255})
	img.SetNRGBA(1, 0, color.NRGBA{100, 10, 250, 255})

	out, ok := Autocontrast(img, 0).(*image.NRGBA)
	if !ok {
		t.Fatal("Autocontrast should keep colour input 3-channel")
	}
	left, right := out.NRGBAAt(0, 0), out.NRGBAAt(1, 0)
	if left.R != 0 || right.R != 255 {
		t.Errorf("red channel: got %d..%d, want 0..255", left.R, right.R)
	}
	if left.G != 10 || right.G != 10 {
		t.Errorf("constant green channel changed: got %d,%d", left.G, right.G)
	}
	if left.B != 0 || right.B != 255 {
		t.Errorf("blue channel: got %d..%d, want 0..255", left.B, right.B)
	}
}

func TestAutocontrast_Cutoff(t *testing.T) {
	// 1 outlier at each end among 100 pixels; a 2% cutoff ignores them.
	img := createGray(100, 1, 120)
	for x := 50; x < 99; x++ {
		img.Pix[x] = 140
	}
	img.Pix[0] = 0
	img.Pix[99] = 255

	out := Autocontrast(img, 2).(*image.Gray)
	if out.Pix[1] != 0 {
		t.Errorf("value 120 should map to 0 with cutoff, got %d", out.Pix[1])
	}
	if out.Pix[60] != 255 {
		t.Errorf("value 140 should map to 255 with cutoff, got %d", out.Pix[60])
	}
}

func TestMedianBlur_RemovesSaltNoise(t *testing.T) {
	img := createGray(9, 9, 0)
	img.SetGray(4, 4, color.Gray{255})

	out, ok := MedianBlur(img).(*image.Gray)
	if !ok {
		t.Fatal("MedianBlur should keep gray input single-channel")
	}
	if out.GrayAt(4, 4).Y != 0 {
		t.Errorf("isolated white pixel should be removed, got %d", out.GrayAt(4, 4).Y)
	}
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds changed: got %v, want %v", out.Bounds(), img.Bounds())
	}
	if img.GrayAt(4, 4).Y != 255 {
		t.Error("MedianBlur modified its input")
	}
}

func TestMedianBlur_Color(t *testing.T) {
	img := toNRGBA(createInMemoryImage(7, 7, color.RGBA{0, 0, 255, 255}))
	img.SetNRGBA(3, 3, color.NRGBA{255, 255, 0, 255})

	out, ok := MedianBlur(img).(*image.NRGBA)
	if !ok {
		t.Fatal("MedianBlur should keep colour input 3-channel")
	}
	if c := out.NRGBAAt(3, 3); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("outlier pixel: got %v, want blue", c)
	}
	if out.Bounds().Dx() != 7 || out.Bounds().Dy() != 7 {
		t.Errorf("dimensions changed: %v", out.Bounds())
	}
}

func TestThreshold(t *testing.T) {
	img := createGray(10, 1, 0)
	for x := 0; x < 10; x++ {
		img.Pix[x] = uint8(x * 20) // 0..180, mean 90, cutoff floor(81) = 81
	}

	out := Threshold(img, DefaultThresholdFactor)

	for x := 0; x < 10; x++ {
		want := uint8(0)
		if x*20 > 81 {
			want = 255
		}
		if out.Pix[x] != want {
			t.Errorf("pixel %d (value %d): got %d, want %d", x, x*20, out.Pix[x], want)
		}
	}
}

func TestThreshold_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
	}{
		{"all black", 0},
		{"all white", 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createGray(100, 50, tt.value)
			out := Threshold(img, DefaultThresholdFactor)
			if !allGray(out, tt.value) {
				t.Errorf("threshold of constant %d image changed pixels", tt.value)
			}
		})
	}
}

func TestThreshold_Idempotent(t *testing.T) {
	gray := Grayscale(createPatternImage(40, 40))
	once := Threshold(gray, DefaultThresholdFactor)
	twice := Threshold(once, DefaultThresholdFactor)

	for i := range once.Pix {
		if once.Pix[i] != twice.Pix[i] {
			t.Fatalf("pixel %d: first pass %d, second pass %d", i, once.Pix[i], twice.Pix[i])
		}
	}
}

func TestThreshold_ColorInput(t *testing.T) {
	out := Threshold(createPatternImage(20, 20), DefaultThresholdFactor)
	if Channels(out) != 1 {
		t.Fatal("Threshold should produce a single-channel image")
	}
	// White quadrant is far above the mean, blue (luma 29) far below.
	if out.GrayAt(15, 15).Y != 255 {
		t.Errorf("white quadrant: got %d, want 255", out.GrayAt(15, 15).Y)
	}
	if out.GrayAt(5, 15).Y != 0 {
		t.Errorf("blue quadrant: got %d, want 0", out.GrayAt(5, 15).Y)
	}
}

func TestMeanIntensity(t *testing.T) {
	img := createGray(4, 1, 0)
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = 0, 100, 200, 100
	if got := MeanIntensity(img); got != 100 {
		t.Errorf("MeanIntensity: got %v, want 100", got)
	}
	if got := ThresholdCutoff(img, 0.9); got != 90 {
		t.Errorf("ThresholdCutoff: got %d, want 90", got)
	}
}

func TestPreprocess_NoStepsCopies(t *testing.T) {
	src := toNRGBA(createInMemoryImage(8, 8, color.RGBA{1, 2, 3, 255}))
	out, ok := Preprocess(src, Steps{}).(*image.NRGBA)
	if !ok {
		t.Fatal("Preprocess without steps should return NRGBA")
	}
	if out == src {
		t.Error("Preprocess returned the input buffer instead of a copy")
	}
	if out.NRGBAAt(4, 4) != src.NRGBAAt(4, 4) {
		t.Error("Preprocess without steps changed pixels")
	}
}

func TestPreprocess_PreservesDimensions(t *testing.T) {
	src := toNRGBA(createPatternImage(37, 23))
	combos := []Steps{
		{Grayscale: true},
		{Autocontrast: true},
		{Blur: true},
		{Threshold: true},
		{Grayscale: true, Autocontrast: true, Blur: true, Threshold: true},
	}

	for _, steps := range combos {
		out := Preprocess(src, steps)
		if out.Bounds().Dx() != 37 || out.Bounds().Dy() != 23 {
			t.Errorf("steps %+v: got %v, want 37x23", steps, out.Bounds())
		}
		wantChannels := 3
		if steps.Grayscale || steps.Threshold {
			wantChannels = 1
		}
		if Channels(out) != wantChannels {
			t.Errorf("steps %+v: channels %d, want %d", steps, Channels(out), wantChannels)
		}
	}
}

func TestPreprocess_BlankPageScenario(t *testing.T) {
	white := toNRGBA(createInMemoryImage(100, 50, color.White))

	black := Invert(white)
	if black.NRGBAAt(50, 25) != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("inverted white should be black, got %v", black.NRGBAAt(50, 25))
	}

	gray := Preprocess(black, Steps{Grayscale: true}).(*image.Gray)
	if !allGray(gray, 0) {
		t.Fatal("grayscale of black should be all zero")
	}

	contrasted := Preprocess(black, Steps{Grayscale: true, Autocontrast: true}).(*image.Gray)
	if !allGray(contrasted, 0) {
		t.Fatal("autocontrast on a constant image should leave it unchanged")
	}

	out := Preprocess(black, Steps{Grayscale: true, Autocontrast: true, Threshold: true}).(*image.Gray)
	if !allGray(out, 0) {
		t.Fatal("threshold of an all-zero image should stay all zero")
	}
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %v, want 100x50", out.Bounds())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{300, 0, 255, 255},
	}
	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
