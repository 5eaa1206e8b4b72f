package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "ocr_process",
			Description: "Run the OCR pipeline on an image: optional colour inversion and preprocessing, Tesseract recognition, confidence filtering. Returns the transcript, the kept word boxes and the name of the text download. Engine failures are reported in 'notice' instead of failing the call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a PNG or JPEG file. Either path or image_base64 is required.",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Image bytes encoded as base64 (a data: URI prefix is accepted)",
					},
					"invert": map[string]interface{}{
						"type":        "boolean",
						"description": "Invert colours before OCR ('Con Filtro'). Default true",
						"default":     true,
					},
					"grayscale": map[string]interface{}{
						"type":        "boolean",
						"description": "Convert to a single luminance channel",
					},
					"autocontrast": map[string]interface{}{
						"type":        "boolean",
						"description": "Stretch intensities to the full 0-255 range",
					},
					"blur": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply a 3x3 median filter",
					},
					"threshold": map[string]interface{}{
						"type":        "boolean",
						"description": "Binarize at 0.9 x mean intensity",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code or '+'-joined list (auto, spa, eng, por, fra, spa+eng). Default auto (eng)",
					},
					"psm": map[string]interface{}{
						"type":        []string{"integer", "string"},
						"description": "Page segmentation mode: 3 (auto), 6 (block), 7 (line) or 11 (sparse). Default 3",
					},
					"min_confidence": map[string]interface{}{
						"type":        "integer",
						"description": "Keep words with confidence strictly above this value. Default 40",
					},
					"accent": map[string]interface{}{
						"type":        "string",
						"description": "Overlay box colour as #RRGGBB. Default #FF69B4",
					},
					"include_overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the overlay image as base64 PNG",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "If set, write the transcript file (ocr_YYYYMMDD_HHMMSS.txt) into this directory",
					},
				},
			},
		},
		{
			Name:        "ocr_engine_info",
			Description: "Report whether the OCR engine is available, its backend, version and installed language data.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "ocr_languages",
			Description: "List the language and page segmentation mode menus accepted by ocr_process.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
