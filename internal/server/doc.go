// Package server implements the MCP (Model Context Protocol) server for the OCR pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the same pipeline the
// web page uses, so MCP-compatible clients can read text out of images.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - ocr_process: Filter an image, recognize it and return transcript, kept
//     word boxes and the download file name (optionally the overlay PNG)
//   - ocr_engine_info: Engine availability, version and installed languages
//   - ocr_languages: The language and page segmentation menus
//
// # Error Handling
//
// Invalid arguments and undecodable images are returned as JSON-RPC error
// responses with code -32000. A failing OCR engine is not an error: the
// ocr_process result carries a notice with the user message and the
// technical detail, and an empty transcript.
//
// # Usage
//
//	p := pipeline.New(engine, log)
//	srv := server.New(p, pipeline.DefaultOptions(), log, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
