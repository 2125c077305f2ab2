// Package server implements the MCP (Model Context Protocol) server for
// image-to-G-code conversion tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the conversion
// pipeline through the MCP protocol, so an assistant can threshold an image,
// inspect the traced contours and produce a G-code program in small steps.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_evict: Drop one or all images from the cache
//
// Conversion Stages:
//   - image_threshold: Binarize at a luminance threshold
//   - gcode_trace_contours: Trace foreground/background boundaries
//   - gcode_generate: Compile contours to a G-code program
//   - gcode_preview: Render the traced paths as a PNG
//
// Every conversion tool accepts threshold, invert, blur_radius,
// max_dimension and crop. Omitted values fall back to the configuration the
// server was created with.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images. Images are cached
// by path and reused across tool calls, so trying several thresholds on the
// same file decodes it once. Entries live until image_evict removes them.
//
// Images whose declared size exceeds the configured pixel limit are refused
// before their pixels are decoded, as are preview canvases larger than
// preview.MaxSize on either side.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// An image that traces to no contours is not an error. The result carries an
// empty program and a message suggesting another threshold.
//
// # Usage
//
//	srv := server.NewWithConfig(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
