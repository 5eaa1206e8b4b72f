package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Default tuning values for the preprocessing chain.
const (
	// DefaultThresholdFactor scales the mean intensity to get the binarization cutoff.
	DefaultThresholdFactor = 0.9

	// DefaultAutocontrastCutoff is the percentage of pixels ignored at each end
	// of the histogram when stretching contrast.
	DefaultAutocontrastCutoff = 0.0
)

// Steps selects the optional preprocessing operations.
//
// The operations always run in the order the fields are declared:
// grayscale, autocontrast, blur, threshold. Each one sees the output of the
// previous one.
type Steps struct {
	Grayscale    bool `json:"grayscale"`
	Autocontrast bool `json:"autocontrast"`
	Blur         bool `json:"blur"`
	Threshold    bool `json:"threshold"`

	// ThresholdFactor multiplies the mean intensity. Zero means DefaultThresholdFactor.
	ThresholdFactor float64 `json:"threshold_factor,omitempty"`

	// AutocontrastCutoff is the percent (0-50) of darkest and lightest pixels
	// to clip before stretching.
	AutocontrastCutoff float64 `json:"autocontrast_cutoff,omitempty"`
}

// Preprocess applies the selected steps to img and returns the result.
//
// The returned image has the same dimensions as img. It is an *image.Gray
// once Grayscale or Threshold ran, and an *image.NRGBA otherwise. img itself
// is never modified; with no steps selected a copy is returned.
func Preprocess(img image.Image, steps Steps) image.Image {
	var out image.Image
	if g, ok := img.(*image.Gray); ok {
		out = copyGray(g)
	} else {
		out = toNRGBA(img)
	}

	if steps.Grayscale {
		out = Grayscale(out)
	}
	if steps.Autocontrast {
		out = Autocontrast(out, steps.AutocontrastCutoff)
	}
	if steps.Blur {
		out = MedianBlur(out)
	}
	if steps.Threshold {
		factor := steps.ThresholdFactor
		if factor == 0 {
			factor = DefaultThresholdFactor
		}
		out = Threshold(out, factor)
	}
	return out
}

// Invert replaces every colour channel value v with 255-v.
//
// Applying Invert twice yields the original pixels exactly. The result is a
// new opaque 3-channel image.
func Invert(img image.Image) *image.NRGBA {
	return toNRGBA(effect.Invert(img))
}

// Grayscale reduces img to a single luminance channel using BT.601 weights
// (0.299 R + 0.587 G + 0.114 B).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return copyGray(g)
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// Autocontrast linearly rescales intensities so that the darkest value maps to
// 0 and the lightest to 255.
//
// cutoff is the percentage of pixels to ignore at each end of the histogram
// before picking the darkest and lightest values. Each colour channel is
// stretched independently. A channel whose darkest and lightest values are
// equal (a constant image) is left unchanged.
//
// Single-channel input produces *image.Gray, anything else *image.NRGBA.
func Autocontrast(img image.Image, cutoff float64) image.Image {
	hist := histogram.NewRGBAHistogram(img)

	if g, ok := img.(*image.Gray); ok {
		lut := stretchLUT(hist.R.Bins, cutoff)
		out := copyGray(g)
		for i, v := range out.Pix {
			out.Pix[i] = lut[v]
		}
		return out
	}

	lr := stretchLUT(hist.R.Bins, cutoff)
	lg := stretchLUT(hist.G.Bins, cutoff)
	lb := stretchLUT(hist.B.Bins, cutoff)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lr[c.R], G: lg[c.G], B: lb[c.B], A: c.A}
	})
}

// stretchLUT builds the 256-entry lookup table for one channel histogram.
func stretchLUT(bins []int, cutoff float64) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(i)
	}

	total := 0
	for _, n := range bins {
		total += n
	}
	if total == 0 {
		return lut
	}

	cut := int(float64(total) * clampFloat(cutoff, 0, 50) / 100)

	lo := 0
	for acc := 0; lo < len(bins); lo++ {
		acc += bins[lo]
		if acc > cut {
			break
		}
	}
	hi := len(bins) - 1
	for acc := 0; hi >= 0; hi-- {
		acc += bins[hi]
		if acc > cut {
			break
		}
	}
	if hi <= lo {
		return lut
	}

	span := hi - lo
	for i := range lut {
		lut[i] = uint8(clamp((i-lo)*255/span, 0, 255))
	}
	return lut
}

// MedianBlur applies a 3x3 median filter.
//
// Gray input stays single-channel. For colour input each output pixel is the
// neighbour ranked in the middle by luminance, so no new colours are
// introduced. Edges are handled by replicating the border pixels.
func MedianBlur(img image.Image) image.Image {
	blurred := effect.Median(img, 1)

	if _, ok := img.(*image.Gray); ok {
		bounds := img.Bounds()
		gray := image.NewGray(bounds)
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				gray.Pix[y*gray.Stride+x] = blurred.Pix[y*blurred.Stride+x*4]
			}
		}
		return gray
	}
	return toNRGBA(blurred)
}

// Threshold binarizes img against a cutoff derived from its mean intensity.
//
// The image is converted to gray first when it still has colour channels.
// With m the mean intensity, the cutoff is floor(factor * m); pixels strictly
// above the cutoff become 255 and all others 0.
//
// For factor in (0, 1) re-applying Threshold to its own output returns the
// same image: white pixels stay above any cutoff below 255 and black pixels
// never exceed a cutoff of at least 0.
func Threshold(img image.Image, factor float64) *image.Gray {
	gray := Grayscale(img)
	cutoff := ThresholdCutoff(gray, factor)

	out := image.NewGray(gray.Bounds())
	for i, v := range gray.Pix {
		if int(v) > cutoff {
			out.Pix[i] = 255
		}
	}
	return out
}

// ThresholdCutoff returns floor(factor * mean) for a gray image.
func ThresholdCutoff(gray *image.Gray, factor float64) int {
	return int(math.Floor(factor * MeanIntensity(gray)))
}

// MeanIntensity returns the average pixel value of a gray image, or 0 for an
// empty image.
func MeanIntensity(gray *image.Gray) float64 {
	hist := histogram.NewRGBAHistogram(gray)
	var sum, n float64
	for v, count := range hist.R.Bins {
		sum += float64(v) * float64(count)
		n += float64(count)
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// toNRGBA returns an opaque NRGBA copy of img.
func toNRGBA(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

func copyGray(g *image.Gray) *image.Gray {
	bounds := g.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		src := g.Pix[g.PixOffset(bounds.Min.X, y):g.PixOffset(bounds.Max.X, y)]
		copy(out.Pix[out.PixOffset(bounds.Min.X, y):], src)
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampFloat(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
