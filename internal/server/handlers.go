package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/ocr-kawaii/internal/imaging"
	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ocr_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "ocr_process":
		return s.handleOCRProcess(ctx, args)
	case "ocr_engine_info":
		return ocr.Inspect(ctx, s.pipeline.Engine()), nil
	case "ocr_languages":
		return s.handleOCRLanguages(ctx)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === OCR Handlers ===

type ocrProcessArgs struct {
	Path           string      `json:"path"`
	ImageBase64    string      `json:"image_base64"`
	Invert         *bool       `json:"invert"`
	Grayscale      bool        `json:"grayscale"`
	Autocontrast   bool        `json:"autocontrast"`
	Blur           bool        `json:"blur"`
	Threshold      bool        `json:"threshold"`
	Language       string      `json:"language"`
	PSM            interface{} `json:"psm"`
	MinConfidence  *int        `json:"min_confidence"`
	Accent         string      `json:"accent"`
	IncludeOverlay bool        `json:"include_overlay"`
	OutputDir      string      `json:"output_dir"`
}

// ocrProcessResult is the tool output of ocr_process.
type ocrProcessResult struct {
	ID          string                `json:"id"`
	Transcript  string                `json:"transcript"`
	Detections  []ocr.Token           `json:"detections"`
	TokensTotal int                   `json:"tokens_total"`
	Filename    string                `json:"filename"`
	SavedPath   string                `json:"saved_path,omitempty"`
	Notice      *pipeline.Notice      `json:"notice,omitempty"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Channels    int                   `json:"channels"`
	ElapsedMS   int64                 `json:"elapsed_ms"`
	Overlay     *imaging.EncodedImage `json:"overlay,omitempty"`
	Options     pipeline.Options      `json:"options"`
}

func (s *Server) handleOCRProcess(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ocrProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	data, err := a.imageBytes()
	if err != nil {
		return nil, err
	}

	opts, err := a.options(s.defaults)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Process(ctx, data, opts)
	if err != nil {
		return nil, err
	}

	out := &ocrProcessResult{
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

	if a.IncludeOverlay {
		enc, err := imaging.EncodeBase64(res.Overlay)
		if err != nil {
			return nil, err
		}
		out.Overlay = enc
	}

	if a.OutputDir != "" {
		path := filepath.Join(a.OutputDir, res.Download.Filename)
		if err := os.WriteFile(path, res.Download.Content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to save transcript: %w", err)
		}
		out.SavedPath = path
	}

	return out, nil
}

func (a *ocrProcessArgs) imageBytes() ([]byte, error) {
	switch {
	case a.ImageBase64 != "":
		raw := a.ImageBase64
		if strings.HasPrefix(raw, "data:") {
			if _, after, ok := strings.Cut(raw, ","); ok {
				raw = after
			}
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid image_base64: %w", err)
		}
		return data, nil
	case a.Path != "":
		return imaging.LoadFile(a.Path)
	default:
		return nil, errors.New("either path or image_base64 is required")
	}
}

func (a *ocrProcessArgs) options(defaults pipeline.Options) (pipeline.Options, error) {
	opts := defaults
	if a.Invert != nil {
		opts.Invert = *a.Invert
	}
	opts.Grayscale = a.Grayscale
	opts.Autocontrast = a.Autocontrast
	opts.Blur = a.Blur
	opts.Threshold = a.Threshold
	if a.Language != "" {
		opts.Language = a.Language
	}
	if a.PSM != nil {
		psm, err := ocr.ParsePSM(fmt.Sprint(a.PSM))
		if err != nil {
			return opts, err
		}
		opts.PSM = psm
	}
	if a.MinConfidence != nil {
		opts.MinConfidence = *a.MinConfidence
	}
	if a.Accent != "" {
		opts.Accent = a.Accent
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// psmOption is one entry of the segmentation menu.
type psmOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

func (s *Server) handleOCRLanguages(ctx context.Context) (interface{}, error) {
	modes := make([]psmOption, 0, len(ocr.PSMs()))
	for _, p := range ocr.PSMs() {
		modes = append(modes, psmOption{Value: int(p), Label: p.Label()})
	}

	info := ocr.Inspect(ctx, s.pipeline.Engine())
	return map[string]interface{}{
		"languages": ocr.Languages(),
		"psm_modes": modes,
		"installed": info.Languages,
	}, nil
}
