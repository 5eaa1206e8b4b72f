// Package imaging provides the pixel-level stages of the OCR pipeline.
//
// It decodes uploaded bytes into an opaque 3-channel grid, applies the base
// invert filter and the optional preprocessing chain (grayscale, autocontrast,
// median blur, mean-based threshold), and draws detection rectangles for the
// overlay view. All operations use a coordinate system where (0,0) is the
// top-left corner, X increases rightward and Y increases downward.
//
// # Buffers
//
// Every function returns a newly allocated image. Inputs, including the raw
// bytes handed to Decode, are never modified, so a caller can keep the
// original around for comparison.
//
// Two concrete types flow between stages:
//   - *image.NRGBA: 3-channel data (alpha is always 255)
//   - *image.Gray: single-channel data after grayscale or threshold
//
// Use Channels to tell them apart without a type switch.
//
// # Order of Operations
//
// Preprocess applies its steps in a fixed order because each step depends on
// the output of the previous one:
//
//  1. Grayscale
//  2. Autocontrast
//  3. Median blur (3x3)
//  4. Threshold at floor(factor * mean), factor 0.9 by default
//
// # Thread Safety
//
// The functions are stateless and can be called concurrently on different
// images.
//
// # Error Handling
//
// Only Decode and the encoders return errors. Decode failures are reported as
// *DecodeError, which matches ErrDecode with errors.Is.
package imaging
