//go:build !cgo || !linux || nogosseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"time"
)

// GosseractAvailable reports whether the in-process backend is compiled in.
const GosseractAvailable = false

// unavailableEngine stands in for a backend that was not compiled in.
type unavailableEngine struct {
	name string
	hint string
}

// NewGosseractEngine returns an engine whose calls fail with
// ErrEngineNotFound. The in-process backend needs a cgo build on linux with
// libtesseract installed.
func NewGosseractEngine(timeout time.Duration, tessdataDir string) Engine {
	return &unavailableEngine{
		name: "gosseract",
		hint: "binary built without the gosseract backend; rebuild on linux with CGO_ENABLED=1 and without -tags nogosseract",
	}
}

func (e *unavailableEngine) Name() string { return e.name }

func (e *unavailableEngine) Recognize(ctx context.Context, img image.Image, req Request) (*Recognition, error) {
	return nil, e.err()
}

func (e *unavailableEngine) Version(ctx context.Context) (string, error) {
	return "", e.err()
}

func (e *unavailableEngine) Languages(ctx context.Context) ([]string, error) {
	return nil, e.err()
}

func (e *unavailableEngine) err() error {
	return &EngineError{Kind: KindNotFound, Op: "init", Err: fmt.Errorf("%w: %s", ErrEngineNotFound, e.hint)}
}
