package ocr

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// PSM is a Tesseract page segmentation mode.
type PSM int

// Supported page segmentation modes.
const (
	PSMAuto        PSM = 3  // Fully automatic page segmentation, no OSD
	PSMSingleBlock PSM = 6  // Assume a single uniform block of text
	PSMSingleLine  PSM = 7  // Treat the image as a single text line
	PSMSparseText  PSM = 11 // Find as much text as possible in no particular order
)

const (
	// DefaultPSM is used when a request leaves the mode unset.
	DefaultPSM = PSMAuto

	// DefaultLanguage is used when a request leaves the language unset.
	DefaultLanguage = "eng"

	// OEM is the engine mode passed to the tesseract binary (default engine).
	OEM = 3
)

var psmLabels = map[PSM]string{
	PSMAuto:        "Fully automatic",
	PSMSingleBlock: "Single uniform block",
	PSMSingleLine:  "Single text line",
	PSMSparseText:  "Sparse text",
}

var psmNames = map[string]PSM{
	"auto":   PSMAuto,
	"block":  PSMSingleBlock,
	"line":   PSMSingleLine,
	"sparse": PSMSparseText,
}

// PSMs returns the supported modes in menu order.
func PSMs() []PSM {
	return []PSM{PSMAuto, PSMSingleBlock, PSMSingleLine, PSMSparseText}
}

// Label returns the menu label, e.g. "3 – Fully automatic".
func (p PSM) Label() string {
	return fmt.Sprintf("%d – %s", int(p), psmLabels[p])
}

func (p PSM) String() string {
	return strconv.Itoa(int(p))
}

// Valid reports whether p is one of the supported modes.
func (p PSM) Valid() bool {
	_, ok := psmLabels[p]
	return ok
}

// ParsePSM accepts a mode number ("3", "6", "7", "11"), a menu label that
// starts with one, or a short name (auto, block, line, sparse).
func ParsePSM(s string) (PSM, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if p, ok := psmNames[s]; ok {
		return p, nil
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid page segmentation mode %q", s)
	}
	p := PSM(n)
	if !p.Valid() {
		return 0, fmt.Errorf("unsupported page segmentation mode %d (want 3, 6, 7 or 11)", n)
	}
	return p, nil
}

// Box is an axis-aligned word rectangle in image pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts b to an image.Rectangle with an exclusive Max corner.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// BoxFromRect converts an image.Rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Token is one word reported by the engine.
type Token struct {
	// Text is the recognized word, untrimmed. It may be empty.
	Text string `json:"text"`

	// Confidence is the engine's score from 0 to 100, or -1 when the engine
	// reported no usable value.
	Confidence int `json:"confidence"`

	// Box locates the word in the image the engine was given.
	Box Box `json:"box"`
}

// Recognition is the raw output of one engine call.
type Recognition struct {
	// Transcript is the plain-text output, line breaks preserved.
	Transcript string `json:"transcript"`

	// Tokens are the word-level detections, unfiltered.
	Tokens []Token `json:"tokens"`
}

// Request carries the per-call engine settings.
type Request struct {
	// Language is a language code or a "+"-joined list such as "spa+eng".
	Language string `json:"language"`

	// PSM is the page segmentation mode.
	PSM PSM `json:"psm"`
}

// normalize fills defaults and validates the request.
func (r Request) normalize() (Request, error) {
	if strings.TrimSpace(r.Language) == "" {
		r.Language = DefaultLanguage
	}
	lang, err := ValidateLanguage(r.Language)
	if err != nil {
		return r, err
	}
	r.Language = lang
	if r.PSM == 0 {
		r.PSM = DefaultPSM
	}
	if !r.PSM.Valid() {
		return r, fmt.Errorf("unsupported page segmentation mode %d", int(r.PSM))
	}
	return r, nil
}

// Engine recognizes text in an image.
//
// Implementations must be safe for concurrent use; the pipeline shares one
// engine across all interactions.
type Engine interface {
	// Name identifies the backend, e.g. "tesseract-cli".
	Name() string

	// Recognize returns the transcript and word tokens for img. Failures are
	// returned as *EngineError. When only the word data step fails, the
	// Recognition is returned alongside the error with the transcript set
	// and no tokens; otherwise it is nil on error.
	Recognize(ctx context.Context, img image.Image, req Request) (*Recognition, error)
}

// Describer is implemented by engines that can report their version and
// installed language data.
type Describer interface {
	Version(ctx context.Context) (string, error)
	Languages(ctx context.Context) ([]string, error)
}
