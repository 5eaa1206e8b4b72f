// Package web serves the OCR page and its JSON twin over HTTP.
//
// Routes:
//
//	GET  /         the form
//	POST /ocr      process a photo or upload and render the result page
//	POST /api/ocr  same, as JSON (or the transcript file with ?format=txt)
//	GET  /healthz  engine availability
package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/logging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/pipeline"
)

// Image sources accepted in the "source" form field.
const (
	SourceAuto   = "auto"
	SourceCamera = "camera"
	SourceUpload = "upload"
)

// Values of the "filter" radio.
const (
	FilterOn  = "Con Filtro"
	FilterOff = "Sin Filtro"
)

// defaultFormMemory is the multipart memory limit when uploads are unlimited.
const defaultFormMemory = 32 << 20

var errNoImage = errors.New("no image received")

// Handler serves the web interface.
type Handler struct {
	pipeline  *pipeline.Pipeline
	defaults  pipeline.Options
	maxUpload int64
	log       logrus.FieldLogger
	version   string
}

// New returns a Handler. maxUpload limits request bodies in bytes; a nil
// logger discards output.
func New(p *pipeline.Pipeline, defaults pipeline.Options, maxUpload int64, log logrus.FieldLogger, version string) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{
		pipeline:  p,
		defaults:  defaults,
		maxUpload: maxUpload,
		log:       log,
		version:   version,
	}
}

// Routes returns the HTTP handler with all routes and request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /ocr", h.handleOCR)
	mux.HandleFunc("POST /api/ocr", h.handleAPI)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return logRequests(mux, h.log)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := h.newPage(h.defaults, r.URL.Query().Get("sticker"))
	p.Info = "Take a photo with your camera or upload an image. 💖"
	h.render(w, http.StatusOK, p)
}

func (h *Handler) handleOCR(w http.ResponseWriter, r *http.Request) {
	data, opts, err := h.readRequest(w, r)
	p := h.newPage(opts, r.FormValue("sticker"))
	if err != nil {
		if errors.Is(err, errNoImage) {
			p.Info = "Take a photo with your camera or upload an image. 💖"
			h.render(w, http.StatusOK, p)
			return
		}
		status, notice := requestNotice(err)
		p.Notice = notice
		h.render(w, status, p)
		return
	}

	res, err := h.pipeline.Process(r.Context(), data, opts)
	if err != nil {
		p.Notice = decodeNotice(err)
		h.render(w, http.StatusBadRequest, p)
		return
	}

	view, err := newResultView(res)
	if err != nil {
		h.log.WithError(err).Error("failed to encode overlay")
		p.Notice = &pipeline.Notice{Kind: "internal", Message: "The overlay could not be rendered.", Detail: err.Error()}
		h.render(w, http.StatusInternalServerError, p)
		return
	}
	p.Result = view
	p.Notice = res.Notice
	h.render(w, http.StatusOK, p)
}

// apiResponse is the JSON body of POST /api/ocr.
type apiResponse struct {
	ID          string           `json:"id"`
	Transcript  string           `json:"transcript"`
	Detections  []ocr.Token      `json:"detections"`
	TokensTotal int              `json:"tokens_total"`
	Filename    string           `json:"filename"`
	Overlay     string           `json:"overlay,omitempty"`
	Notice      *pipeline.Notice `json:"notice,omitempty"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Channels    int              `json:"channels"`
	ElapsedMS   int64            `json:"elapsed_ms"`
	Options     pipeline.Options `json:"options"`
}

func (h *Handler) handleAPI(w http.ResponseWriter, r *http.Request) {
	data, opts, err := h.readRequest(w, r)
	if err != nil {
		status, notice := requestNotice(err)
		respondWithError(w, notice.Message, status)
		return
	}

	res, err := h.pipeline.Process(r.Context(), data, opts)
	if err != nil {
		respondWithError(w, decodeNotice(err).Message, http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "txt" {
		w.Header().Set("Content-Type", res.Download.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Download.Filename))
		if res.Notice != nil {
			w.Header().Set("X-OCR-Notice", res.Notice.Kind)
		}
		_, _ = w.Write(res.Download.Content)
		return
	}

	out := apiResponse{
		ID:          res.ID,
		Transcript:  res.Transcript,
		Detections:  res.Detections,
		TokensTotal: len(res.Tokens),
		Filename:    res.Download.Filename,
		Notice:      res.Notice,
		Width:       res.Width,
		Height:      res.Height,
		Channels:    res.Channels,
		ElapsedMS:   res.Elapsed.Milliseconds(),
		Options:     opts,
	}
	if checked(r, "include_overlay") {
		enc, err := imaging.EncodeBase64(res.Overlay)
		if err != nil {
			respondWithError(w, "failed to encode overlay: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out.Overlay = enc.DataURI()
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := ocr.Inspect(r.Context(), h.pipeline.Engine())
	status := http.StatusOK
	if !info.Available {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, info)
}

// readRequest parses the multipart form and returns the selected image and
// options.
func (h *Handler) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, pipeline.Options, error) {
	opts := h.defaults
	memory := int64(defaultFormMemory)
	if h.maxUpload > 0 {
		if r.ContentLength > h.maxUpload {
			return nil, opts, &http.MaxBytesError{Limit: h.maxUpload}
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
		memory = h.maxUpload
	}
	if err := r.ParseMultipartForm(memory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, opts, err
	}

	opts, err := h.formOptions(r)
	if err != nil {
		return nil, opts, err
	}

	data, err := readImage(r)
	if err != nil {
		return nil, opts, err
	}
	return data, opts, nil
}

// formOptions overlays the form fields on the configured defaults.
func (h *Handler) formOptions(r *http.Request) (pipeline.Options, error) {
	opts := h.defaults

	switch r.FormValue("filter") {
	case "":
	case FilterOn:
		opts.Invert = true
	case FilterOff:
		opts.Invert = false
	default:
		return opts, &formError{field: "filter", err: fmt.Errorf("want %q or %q", FilterOn, FilterOff)}
	}

	opts.Grayscale = checked(r, "grayscale")
	opts.Autocontrast = checked(r, "autocontrast")
	opts.Blur = checked(r, "blur")
	opts.Threshold = checked(r, "threshold")

	if v := r.FormValue("lang"); v != "" {
		opts.Language = v
	}
	if v := r.FormValue("psm"); v != "" {
		psm, err := ocr.ParsePSM(v)
		if err != nil {
			return opts, &formError{field: "psm", err: err}
		}
		opts.PSM = psm
	}
	if v := r.FormValue("theme"); v != "" {
		opts.Theme = ThemeByName(v).Name
	}
	if v := r.FormValue("accent"); v != "" {
		opts.Accent = v
	}
	if opts.Accent == "" {
		opts.Accent = ThemeByName(opts.Theme).Accent
	}

	if err := opts.Validate(); err != nil {
		return opts, &formError{field: "options", err: err}
	}
	return opts, nil
}

// readImage returns the bytes of the selected image. With source "auto" a
// camera capture wins over an uploaded file.
func readImage(r *http.Request) ([]byte, error) {
	source := strings.ToLower(strings.TrimSpace(r.FormValue("source")))
	switch source {
	case "", SourceAuto:
		data, err := readFormFile(r, SourceCamera)
		if !errors.Is(err, errNoImage) {
			return data, err
		}
		return readFormFile(r, SourceUpload)
	case SourceCamera, SourceUpload:
		return readFormFile(r, source)
	default:
		return nil, &formError{field: "source", err: fmt.Errorf("unknown source %q", source)}
	}
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, errNoImage
		}
		return nil, err
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, errNoImage
	}
	return readAll(file)
}

func readAll(f multipart.File) ([]byte, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

func checked(r *http.Request, field string) bool {
	switch strings.ToLower(r.FormValue(field)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// formError is an invalid form field.
type formError struct {
	field string
	err   error
}

func (e *formError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.field, e.err)
}

func (e *formError) Unwrap() error {
	return e.err
}

// requestNotice maps a request parsing error to a status and notice.
func requestNotice(err error) (int, *pipeline.Notice) {
	var tooLarge *http.MaxBytesError
	var fe *formError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, &pipeline.Notice{
			Kind:    "too_large",
			Message: fmt.Sprintf("The image is too large (limit %d MB).", tooLarge.Limit>>20),
			Detail:  err.Error(),
		}
	case errors.Is(err, errNoImage):
		return http.StatusBadRequest, &pipeline.Notice{
			Kind:    "no_image",
			Message: "Take a photo or upload a PNG/JPG image.",
		}
	case errors.As(err, &fe):
		return http.StatusBadRequest, &pipeline.Notice{
			Kind:    "invalid_form",
			Message: fe.Error(),
		}
	default:
		return http.StatusBadRequest, &pipeline.Notice{
			Kind:    "bad_request",
			Message: "The form could not be read.",
			Detail:  err.Error(),
		}
	}
}

func decodeNotice(err error) *pipeline.Notice {
	return &pipeline.Notice{
		Kind:    "decode_failed",
		Message: "That file is not an image we can read. Try a PNG or JPG.",
		Detail:  err.Error(),
	}
}
