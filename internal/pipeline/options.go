package pipeline

import (
	"fmt"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
)

// Options selects the filters and engine settings for one interaction.
//
// Start from DefaultOptions. In the zero value MinConfidence is 0, which
// keeps every token with a positive score, while a zero ThresholdFactor or
// AutocontrastCutoff falls back to the imaging defaults.
type Options struct {
	// Invert applies the base colour inversion ("Con Filtro").
	Invert bool `json:"invert"`

	Grayscale    bool `json:"grayscale"`
	Autocontrast bool `json:"autocontrast"`
	Blur         bool `json:"blur"`
	Threshold    bool `json:"threshold"`

	// Language is a menu value, code or "+"-joined list; "auto" means English.
	Language string  `json:"language"`
	PSM      ocr.PSM `json:"psm"`

	// MinConfidence is the score a token must exceed to be drawn. Zero is
	// a real threshold, not a request for DefaultMinConfidence.
	MinConfidence int `json:"min_confidence"`

	ThresholdFactor    float64 `json:"threshold_factor"`
	AutocontrastCutoff float64 `json:"autocontrast_cutoff"`

	// Accent is the overlay stroke colour as hex; empty or invalid uses the
	// default pink.
	Accent string `json:"accent,omitempty"`

	// Theme only affects presentation.
	Theme string `json:"theme,omitempty"`
}

// DefaultOptions returns the settings of a fresh form: inversion on, no
// optional preprocessing, automatic language and segmentation.
func DefaultOptions() Options {
	return Options{
		Invert:             true,
		Language:           ocr.AutoLanguage,
		PSM:                ocr.DefaultPSM,
		MinConfidence:      ocr.DefaultMinConfidence,
		ThresholdFactor:    imaging.DefaultThresholdFactor,
		AutocontrastCutoff: imaging.DefaultAutocontrastCutoff,
	}
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	if _, err := ocr.ValidateLanguage(o.Language); err != nil {
		return err
	}
	if o.PSM != 0 && !o.PSM.Valid() {
		return fmt.Errorf("unsupported page segmentation mode %d", int(o.PSM))
	}
	if o.ThresholdFactor != 0 && (o.ThresholdFactor <= 0 || o.ThresholdFactor >= 1) {
		return fmt.Errorf("threshold factor must be between 0 and 1, got %v", o.ThresholdFactor)
	}
	if o.AutocontrastCutoff < 0 || o.AutocontrastCutoff >= 50 {
		return fmt.Errorf("autocontrast cutoff must be in [0, 50), got %v", o.AutocontrastCutoff)
	}
	if o.Accent != "" {
		if _, err := imaging.ParseAccent(o.Accent); err != nil {
			return err
		}
	}
	return nil
}

// Steps returns the preprocessing selection.
func (o Options) Steps() imaging.Steps {
	return imaging.Steps{
		Grayscale:          o.Grayscale,
		Autocontrast:       o.Autocontrast,
		Blur:               o.Blur,
		Threshold:          o.Threshold,
		ThresholdFactor:    o.ThresholdFactor,
		AutocontrastCutoff: o.AutocontrastCutoff,
	}
}

// Request returns the engine request.
func (o Options) Request() ocr.Request {
	return ocr.Request{
		Language: ocr.ResolveLanguage(o.Language),
		PSM:      o.PSM,
	}
}
