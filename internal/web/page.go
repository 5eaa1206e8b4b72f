package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/pipeline"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
}).Parse(indexHTML))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type themeOption struct {
	Theme
	Selected bool
}

// page is the view model of the single page.
type page struct {
	Version     string
	Theme       Theme
	Themes      []themeOption
	Sticker     string
	Stickers    []option
	Languages   []option
	PSMs        []option
	Options     pipeline.Options
	FilterOn    string
	FilterOff   string
	Accent      string
	MaxUploadMB int64

	Info   string
	Notice *pipeline.Notice
	Result *resultView
}

type resultView struct {
	ID          string
	Transcript  string
	OverlayURI  template.URL
	DownloadURI template.URL
	Filename    string
	Detections  []ocr.Token
	TokensTotal int
	Width       int
	Height      int
	Channels    int
	Elapsed     time.Duration
}

func (h *Handler) newPage(opts pipeline.Options, sticker string) *page {
	theme := ThemeByName(opts.Theme)
	if !validSticker(sticker) {
		sticker = theme.Sticker
	}

	p := &page{
		Version:     h.version,
		Theme:       theme,
		Sticker:     sticker,
		Options:     opts,
		FilterOn:    FilterOn,
		FilterOff:   FilterOff,
		Accent:      imaging.HexString(imaging.AccentOrDefault(opts.Accent)),
		MaxUploadMB: h.maxUpload >> 20,
	}

	for _, t := range themes {
		p.Themes = append(p.Themes, themeOption{Theme: t, Selected: t.Name == theme.Name})
	}
	for _, s := range Stickers {
		p.Stickers = append(p.Stickers, option{Value: s, Label: s, Selected: s == sticker})
	}
	for _, l := range ocr.Languages() {
		p.Languages = append(p.Languages, option{Value: l.Code, Label: l.Label, Selected: l.Code == opts.Language || l.Label == opts.Language})
	}
	for _, m := range ocr.PSMs() {
		p.PSMs = append(p.PSMs, option{Value: m.String(), Label: m.Label(), Selected: m == opts.PSM})
	}
	return p
}

func newResultView(res *pipeline.Result) (*resultView, error) {
	overlay, err := imaging.EncodeBase64(res.Overlay)
	if err != nil {
		return nil, err
	}
	return &resultView{
		ID:          res.ID,
		Transcript:  res.Transcript,
		OverlayURI:  template.URL(overlay.DataURI()),
		DownloadURI: template.URL(res.Download.DataURI()),
		Filename:    res.Download.Filename,
		Detections:  res.Detections,
		TokensTotal: len(res.Tokens),
		Width:       res.Width,
		Height:      res.Height,
		Channels:    res.Channels,
		Elapsed:     res.Elapsed.Round(time.Millisecond),
	}, nil
}

func (h *Handler) render(w http.ResponseWriter, status int, p *page) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, p); err != nil {
		h.log.WithError(err).Error("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
