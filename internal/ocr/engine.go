package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by New.
const (
	BackendCLI       = "cli"
	BackendGosseract = "gosseract"
)

// Settings selects and configures a backend.
type Settings struct {
	Backend     string
	Binary      string
	Timeout     time.Duration
	TessdataDir string
}

// New returns the engine for s.Backend. An empty backend selects the CLI.
func New(s Settings) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", BackendCLI:
		e := NewCLIEngine(s.Binary, s.Timeout)
		e.TessdataDir = s.TessdataDir
		return e, nil
	case BackendGosseract:
		return NewGosseractEngine(s.Timeout, s.TessdataDir), nil
	default:
		return nil, fmt.Errorf("unknown ocr backend %q (want %s or %s)", s.Backend, BackendCLI, BackendGosseract)
	}
}

// Info describes the state of an engine.
type Info struct {
	Available bool     `json:"available"`
	Backend   string   `json:"backend"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Error     string   `json:"error,omitempty"`
	Hint      string   `json:"hint,omitempty"`
}

// Inspect asks e for its version and installed languages.
//
// An engine that cannot report its version is marked unavailable, with the
// user-facing message in Hint. A failing language listing is not fatal.
func Inspect(ctx context.Context, e Engine) Info {
	info := Info{Backend: e.Name()}

	d, ok := e.(Describer)
	if !ok {
		info.Available = true
		return info
	}

	version, err := d.Version(ctx)
	if err != nil {
		info.Error = err.Error()
		info.Hint = UserMessage(err)
		return info
	}
	info.Available = true
	info.Version = version

	if langs, err := d.Languages(ctx); err == nil {
		info.Languages = langs
	}
	return info
}
