// Package ocr wraps the Tesseract OCR engine behind a small Engine interface.
//
// Two backends are available:
//
//   - cli (default): runs the tesseract binary with os/exec. The image is
//     written to a temporary PNG, recognized twice (plain text, then TSV word
//     data) and removed again.
//   - gosseract: links libtesseract in-process through gosseract/v2. It is
//     compiled on linux when cgo is enabled; -tags nogosseract or any other
//     build gets an engine that fails with ErrEngineNotFound.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-spa
//   - macOS: brew install tesseract tesseract-lang
//
// # Languages and Modes
//
// Requests carry a language code or a "+"-joined list ("spa+eng") and one of
// the page segmentation modes 3, 6, 7 or 11. The engine mode is always 3.
// Languages returns the menu offered to users; "auto" resolves to English.
//
// # Tokens
//
// Word tokens report confidence as an integer from 0 to 100, or -1 when the
// engine gave no usable value. FilterTokens keeps tokens with text whose
// confidence is strictly above a minimum (DefaultMinConfidence is 40).
//
// # Error Handling
//
// Every engine failure is an *EngineError. Its Kind tells callers what went
// wrong:
//   - KindNotFound matches ErrEngineNotFound (binary missing or not built in)
//   - KindTimeout matches ErrEngineTimeout (deadline expired)
//   - KindFailed covers everything else
//
// UserMessage turns any of them into text suitable for end users. Nothing in
// this package retries.
package ocr
