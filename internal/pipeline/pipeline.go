// Package pipeline runs one OCR interaction end to end: decode, base filter,
// preprocessing, recognition, confidence filtering, overlay and download.
//
// A Pipeline holds only the engine and logger. Every Process call owns its
// buffers, so calls may run concurrently.
package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/logging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
)

// Notice reports a recoverable engine failure to the user.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`

	// Partial is set when the transcript survived and only the word boxes
	// were lost.
	Partial bool `json:"partial,omitempty"`
}

// partialMessage replaces the engine message when the transcript survived.
const partialMessage = "Text was recognized, but the word boxes could not be drawn this time."

// Result is everything one interaction produces.
type Result struct {
	ID string `json:"id"`

	// Transcript is the engine's plain-text output. It is empty after a
	// failure unless the engine still produced text.
	Transcript string `json:"transcript"`

	// Tokens are all word tokens; Detections the ones that passed the filter.
	Tokens     []ocr.Token `json:"tokens"`
	Detections []ocr.Token `json:"detections"`

	// Processed is the image handed to the engine.
	Processed image.Image `json:"-"`

	// Overlay is Processed with the detection boxes drawn on it.
	Overlay *image.NRGBA `json:"-"`

	Download Download `json:"download"`
	Notice   *Notice  `json:"notice,omitempty"`

	Width    int `json:"width"`
	Height   int `json:"height"`
	Channels int `json:"channels"`

	Elapsed time.Duration `json:"elapsed"`
}

// Pipeline processes images with a shared engine.
type Pipeline struct {
	engine ocr.Engine
	log    logrus.FieldLogger

	// Now is the clock used for download names. Tests pin it.
	Now func() time.Time
}

// New returns a Pipeline. A nil logger discards output.
func New(engine ocr.Engine, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{engine: engine, log: log, Now: time.Now}
}

// Engine returns the engine the pipeline uses.
func (p *Pipeline) Engine() ocr.Engine {
	return p.engine
}

// Process runs one interaction on raw image bytes.
//
// A decode failure aborts the interaction and returns an error matching
// imaging.ErrDecode; no partial result is produced. Engine failures do not
// abort: the result carries a Notice and no tokens, and still has an overlay
// and a download. The transcript is empty unless the engine returned one
// with its error, in which case the Notice is marked Partial.
func (p *Pipeline) Process(ctx context.Context, data []byte, opts Options) (*Result, error) {
	start := p.Now()
	id := uuid.NewString()
	log := logging.WithRequest(p.log, id)

	img, err := imaging.Decode(data)
	if err != nil {
		log.WithError(err).Warn("failed to decode image")
		return nil, err
	}

	var base image.Image = img
	if opts.Invert {
		base = imaging.Invert(img)
	}
	processed := imaging.Preprocess(base, opts.Steps())
	info := imaging.Describe(processed)

	log.WithFields(logrus.Fields{
		"width":    info.Width,
		"height":   info.Height,
		"channels": info.Channels,
		"invert":   opts.Invert,
		"steps":    opts.Steps(),
	}).Debug("image prepared")

	result := &Result{
		ID:        id,
		Tokens:    []ocr.Token{},
		Processed: processed,
		Width:     info.Width,
		Height:    info.Height,
		Channels:  info.Channels,
	}

	req := opts.Request()
	rec, err := p.engine.Recognize(ctx, processed, req)
	switch {
	case err != nil:
		kind := ocr.KindOf(err)
		result.Notice = &Notice{
			Kind:    kind.String(),
			Message: ocr.UserMessage(err),
			Detail:  err.Error(),
		}
		if rec != nil {
			result.Transcript = rec.Transcript
			result.Notice.Partial = true
			result.Notice.Message = partialMessage
			log.WithError(err).WithField("kind", kind).Warn("ocr word data failed")
		} else {
			log.WithError(err).WithField("kind", kind).Error("ocr failed")
		}
	case rec == nil:
		log.WithField("engine", p.engine.Name()).Warn("engine returned no recognition")
	default:
		result.Transcript = rec.Transcript
		if rec.Tokens != nil {
			result.Tokens = rec.Tokens
		}
	}

	result.Detections = ocr.FilterTokens(result.Tokens, opts.MinConfidence)
	result.Overlay = imaging.DrawBoxes(processed, ocr.Rectangles(result.Detections), imaging.AccentOrDefault(opts.Accent))
	result.Download = NewDownload(start, result.Transcript)
	result.Elapsed = p.Now().Sub(start)

	log.WithFields(logrus.Fields{
		"engine":     p.engine.Name(),
		"language":   req.Language,
		"psm":        int(req.PSM),
		"tokens":     len(result.Tokens),
		"detections": len(result.Detections),
		"elapsed":    result.Elapsed,
	}).Info("image processed")

	return result, nil
}
