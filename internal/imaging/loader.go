package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
)

// ErrDecode is matched by every DecodeError via errors.Is.
var ErrDecode = errors.New("invalid image data")

// DecodeError reports that raw bytes could not be turned into a pixel grid.
//
// It is fatal for the interaction that produced it: no partial output is
// built from an image that failed to decode.
type DecodeError struct {
	// Size is the length of the rejected payload in bytes.
	Size int

	// Err is the underlying decoder error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image (%d bytes): %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) true for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Decode turns encoded PNG, JPEG or GIF bytes into an opaque 3-channel image.
//
// Parameters:
//   - data: The encoded image. The slice is only read, never modified.
//
// Returns:
//   - *image.NRGBA: A freshly allocated image whose alpha bytes are all 255.
//     Transparency in the source is dropped rather than composited, so the
//     colour channels keep their stored values.
//   - error: A *DecodeError if data is empty or not a supported image.
//
// # Orientation
//
// Camera captures usually carry an EXIF orientation tag. Decode applies it,
// so a portrait photo comes out upright and bounding boxes reported by the
// OCR engine line up with what the user sees.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Size: 0, Err: errors.New("empty payload")}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Size: len(data), Err: err}
	}

	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out, nil
}

// LoadFile reads an image file from disk and returns its raw bytes.
//
// The bytes are returned undecoded so callers can hand them to the same
// Decode path used for uploads.
func LoadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return data, nil
}

// ImageInfo contains metadata about a pixel grid at some stage of the pipeline.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is 1 for single-channel (gray or binary) images, 3 otherwise.
	Channels int `json:"channels"`

	// Format is the encoded format sniffed from the original bytes ("png",
	// "jpeg", "gif"), or empty when the info describes an in-memory image.
	Format string `json:"format,omitempty"`
}

// Describe returns the dimensions and channel count of img.
func Describe(img image.Image) ImageInfo {
	bounds := img.Bounds()
	return ImageInfo{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: Channels(img),
	}
}

// Sniff reports the encoded format of data without decoding the pixels.
// It returns an empty string when the format is not recognised.
func Sniff(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return format
}

// Channels returns 1 for single-channel images and 3 for everything else.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	return 3
}
