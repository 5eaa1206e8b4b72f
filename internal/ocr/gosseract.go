//go:build cgo && linux && !nogosseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/otiai10/gosseract/v2"
)

// GosseractAvailable reports whether the in-process backend is compiled in.
const GosseractAvailable = true

// GosseractEngine runs libtesseract in-process through gosseract.
//
// A fresh client is created for every call; gosseract clients are not safe
// for concurrent use.
type GosseractEngine struct {
	// Timeout bounds the whole Recognize call. Zero disables it.
	Timeout time.Duration

	// TessdataDir overrides the tessdata prefix when set.
	TessdataDir string

	newClient func() *gosseract.Client
}

// NewGosseractEngine returns the in-process engine.
func NewGosseractEngine(timeout time.Duration, tessdataDir string) Engine {
	return &GosseractEngine{
		Timeout:     timeout,
		TessdataDir: tessdataDir,
		newClient:   gosseract.NewClient,
	}
}

// Name implements Engine.
func (e *GosseractEngine) Name() string { return "gosseract" }

// Recognize implements Engine.
//
// libtesseract cannot be interrupted, so on timeout the call returns
// immediately while the client finishes in the background and is then closed.
func (e *GosseractEngine) Recognize(ctx context.Context, img image.Image, req Request) (*Recognition, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "request", Err: err}
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "prepare", Err: err}
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	type outcome struct {
		rec *Recognition
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		rec, err := e.recognize(data, req)
		done <- outcome{rec, err}
	}()

	select {
	case out := <-done:
		return out.rec, out.err
	case <-ctx.Done():
		return nil, &EngineError{Kind: KindTimeout, Op: "text", Err: fmt.Errorf("%w: %v", ErrEngineTimeout, ctx.Err())}
	}
}

func (e *GosseractEngine) recognize(data []byte, req Request) (*Recognition, error) {
	client := e.newClient()
	defer client.Close()

	if e.TessdataDir != "" {
		if err := client.SetTessdataPrefix(e.TessdataDir); err != nil {
			return nil, &EngineError{Kind: KindFailed, Op: "tessdata", Err: err}
		}
	}
	if err := client.SetLanguage(strings.Split(req.Language, "+")...); err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "language", Err: err}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(req.PSM)); err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "psm", Err: err}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "image", Err: err}
	}

	text, err := client.Text()
	if err != nil {
		return nil, &EngineError{Kind: KindFailed, Op: "text", Err: err}
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Recognition{Transcript: text, Tokens: []Token{}}, &EngineError{Kind: KindFailed, Op: "boxes", Err: err}
	}

	tokens := make([]Token, 0, len(boxes))
	for _, b := range boxes {
		conf := -1
		if b.Confidence >= 0 {
			conf = int(b.Confidence)
		}
		tokens = append(tokens, Token{
			Text:       b.Word,
			Confidence: conf,
			Box:        BoxFromRect(b.Box),
		})
	}

	return &Recognition{Transcript: text, Tokens: tokens}, nil
}

// Version returns the linked libtesseract version.
func (e *GosseractEngine) Version(ctx context.Context) (string, error) {
	client := e.newClient()
	defer client.Close()
	return "tesseract " + client.Version(), nil
}

// Languages is not reported by the in-process backend.
func (e *GosseractEngine) Languages(ctx context.Context) ([]string, error) {
	return nil, nil
}
