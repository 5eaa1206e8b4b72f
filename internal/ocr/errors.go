package ocr

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by *EngineError through errors.Is.
var (
	// ErrEngineNotFound means the OCR backend is missing, not executable or
	// not compiled into this binary. Retrying will not help.
	ErrEngineNotFound = errors.New("ocr engine not found")

	// ErrEngineTimeout means the per-call deadline expired before the engine
	// finished.
	ErrEngineTimeout = errors.New("ocr engine timed out")
)

// Kind classifies engine failures.
type Kind int

const (
	// KindFailed covers every failure that is not one of the kinds below.
	KindFailed Kind = iota
	KindNotFound
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "engine_not_found"
	case KindTimeout:
		return "engine_timeout"
	default:
		return "engine_failed"
	}
}

// EngineError describes a failed engine call.
type EngineError struct {
	Kind   Kind
	Op     string // step that failed, e.g. "lookup", "text", "tsv"
	Err    error
	Stderr string // trimmed diagnostic output of the engine, if any
}

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("ocr %s: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is maps the error kind onto the package sentinels.
func (e *EngineError) Is(target error) bool {
	switch target {
	case ErrEngineNotFound:
		return e.Kind == KindNotFound
	case ErrEngineTimeout:
		return e.Kind == KindTimeout
	}
	return false
}

// KindOf returns the Kind of err. Errors that are not engine errors, but
// still match a sentinel, get the sentinel's kind.
func KindOf(err error) Kind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	switch {
	case errors.Is(err, ErrEngineNotFound):
		return KindNotFound
	case errors.Is(err, ErrEngineTimeout):
		return KindTimeout
	}
	return KindFailed
}

// UserMessage returns the message shown to end users for err. Each kind has
// its own wording; technical detail belongs in err.Error().
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindNotFound:
		return "Tesseract was not found. Install it (for example apt-get install tesseract-ocr) or set TESSERACT_PATH to the binary."
	case KindTimeout:
		return "OCR took too long and was stopped. Try a smaller image or a simpler page segmentation mode."
	default:
		return "Something went wrong while running OCR."
	}
}
