package server

import (
	"context"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"ocr_process",
		"ocr_engine_info",
		"ocr_languages",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties missing")
			}
		})
	}
}

func TestToolDefinitions_ProcessProperties(t *testing.T) {
	var process Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "ocr_process" {
			process = tool
		}
	}

	props := process.InputSchema["properties"].(map[string]interface{})
	for _, name := range []string{"path", "image_base64", "invert", "grayscale", "autocontrast", "blur", "threshold", "language", "psm", "min_confidence", "accent", "include_overlay", "output_dir"} {
		if _, ok := props[name]; !ok {
			t.Errorf("ocr_process missing property %q", name)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(&stubEngine{})
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok || len(tools) != 3 {
		t.Errorf("tools: got %v", result["tools"])
	}
}
