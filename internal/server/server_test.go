package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"strings"
	"testing"

	"github.com/ironsheep/ocr-kawaii/internal/ocr"
	"github.com/ironsheep/ocr-kawaii/internal/pipeline"
)

// stubEngine returns a fixed recognition or error.
type stubEngine struct {
	rec *ocr.Recognition
	err error
	req ocr.Request
}

func (e *stubEngine) Name() string { return "stub" }

func (e *stubEngine) Recognize(ctx context.Context, img image.Image, req ocr.Request) (*ocr.Recognition, error) {
	e.req = req
	if e.err != nil {
		return nil, e.err
	}
	return e.rec, nil
}

func (e *stubEngine) Version(ctx context.Context) (string, error) { return "stub 1.0", nil }

func (e *stubEngine) Languages(ctx context.Context) ([]string, error) {
	return []string{"eng", "spa"}, nil
}

func newTestServer(engine ocr.Engine) *Server {
	return New(pipeline.New(engine, nil), pipeline.DefaultOptions(), nil, "test")
}

func TestNew(t *testing.T) {
	s := newTestServer(&stubEngine{})
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.pipeline == nil {
		t.Fatal("New() did not keep the pipeline")
	}
	if s.log == nil {
		t.Fatal("New() should default the logger")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(&stubEngine{})

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "ocr-kawaii" || info["version"] != "test" {
		t.Errorf("serverInfo: got %v", info)
	}
}

func TestHandleRequest_Notification(t *testing.T) {
	s := newTestServer(&stubEngine{})
	if resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notifications should not get a response, got %+v", resp)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(&stubEngine{})
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: "p", Method: "ping"})
	if resp == nil || resp.Error != nil || resp.ID != "p" {
		t.Errorf("unexpected ping response: %+v", resp)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := newTestServer(&stubEngine{})
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})
	if resp == nil || resp.Error == nil {
		t.Fatal("unknown method should return an error")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Code: got %d, want -32601", resp.Error.Code)
	}
}

func TestServe(t *testing.T) {
	s := newTestServer(&stubEngine{})

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 responses (initialize, parse error, tools/list), got %d:\n%s", len(lines), out.String())
	}

	var parseErr MCPResponse
	if err := json.Unmarshal([]byte(lines[1]), &parseErr); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if parseErr.Error == nil || parseErr.Error.Code != -32700 {
		t.Errorf("want parse error, got %+v", parseErr)
	}

	var list MCPResponse
	if err := json.Unmarshal([]byte(lines[2]), &list); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if list.ID != float64(2) || list.Error != nil {
		t.Errorf("unexpected tools/list response: %+v", list)
	}
}

func TestServe_Cancelled(t *testing.T) {
	s := newTestServer(&stubEngine{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	if err == nil {
		t.Error("Serve should stop with the context error")
	}
	if out.Len() != 0 {
		t.Errorf("no responses expected after cancellation, got %q", out.String())
	}
}
