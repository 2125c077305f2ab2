package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/gcode-tools-mcp/internal/contour"
	"github.com/ironsheep/gcode-tools-mcp/internal/imaging"
	"github.com/ironsheep/gcode-tools-mcp/internal/pipeline"
	"github.com/ironsheep/gcode-tools-mcp/internal/preview"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "gcode_generate").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool execution failed")
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_evict":
		return s.handleImageEvict(args)

	// Conversion Stages
	case "image_threshold":
		return s.handleImageThreshold(args)
	case "gcode_trace_contours":
		return s.handleTraceContours(args)
	case "gcode_generate":
		return s.handleGenerate(args)
	case "gcode_preview":
		return s.handlePreview(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// EvictResult reports what an image_evict call removed.
type EvictResult struct {
	Evicted int `json:"evicted"`
	Cached  int `json:"cached"`
}

func (s *Server) handleImageEvict(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	res := &EvictResult{}
	if a.Path == "" {
		res.Evicted = s.cache.Clear()
	} else if s.cache.Evict(a.Path) {
		res.Evicted = 1
	}
	res.Cached = s.cache.Len()
	s.log.Debug().Str("path", a.Path).Int("evicted", res.Evicted).Msg("evicted images")
	return res, nil
}

// === Conversion Handlers ===

// conversionArgs are shared by every tool that thresholds an image. Pointer
// fields distinguish "omitted" (use the configured default) from zero.
type conversionArgs struct {
	Path         string          `json:"path"`
	Threshold    *int            `json:"threshold"`
	Invert       *bool           `json:"invert"`
	BlurRadius   *float64        `json:"blur_radius"`
	MaxDimension *int            `json:"max_dimension"`
	Crop         *imaging.Region `json:"crop"`
	Feed         *int            `json:"feed"`
	Scale        *float64        `json:"scale"`
}

// options resolves the arguments against the server configuration.
func (s *Server) options(a conversionArgs) pipeline.Options {
	opts := pipeline.Options{
		Threshold: s.cfg.Threshold,
		Feed:      s.cfg.Feed,
		Scale:     s.cfg.Scale,
		MaxPixels: s.cfg.MaxPixels,
		Prepare: imaging.PrepareOptions{
			Crop:         a.Crop,
			MaxDimension: s.cfg.MaxDimension,
			Invert:       s.cfg.Invert,
			BlurRadius:   s.cfg.BlurRadius,
		},
	}
	if a.Threshold != nil {
		opts.Threshold = *a.Threshold
	}
	if a.Feed != nil {
		opts.Feed = *a.Feed
	}
	if a.Scale != nil {
		opts.Scale = *a.Scale
	}
	if a.Invert != nil {
		opts.Prepare.Invert = *a.Invert
	}
	if a.BlurRadius != nil {
		opts.Prepare.BlurRadius = *a.BlurRadius
	}
	if a.MaxDimension != nil {
		opts.Prepare.MaxDimension = *a.MaxDimension
	}
	return opts
}

// convert loads the image named by a and runs the full pipeline.
func (s *Server) convert(a conversionArgs) (*pipeline.Result, pipeline.Options, error) {
	opts := s.options(a)
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, opts, err
	}
	res, err := pipeline.GenerateImage(img, opts)
	if err != nil {
		return nil, opts, err
	}
	s.log.Debug().
		Str("path", a.Path).
		Int("threshold", opts.Threshold).
		Int("width", res.Width).
		Int("height", res.Height).
		Interface("stats", res.Stats).
		Msg("traced image")
	return res, opts, nil
}

// ThresholdResult contains the binarized image.
type ThresholdResult struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Threshold       int    `json:"threshold"`
	ForegroundCells int    `json:"foreground_cells"`
	ImageBase64     string `json:"image_base64"`
	MimeType        string `json:"mime_type"`
}

func (s *Server) handleImageThreshold(args json.RawMessage) (interface{}, error) {
	var a conversionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := s.options(a)
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	grid, err := pipeline.Binarize(img, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, grid.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode threshold image: %w", err)
	}

	return &ThresholdResult{
		Width:           grid.Width,
		Height:          grid.Height,
		Threshold:       opts.Threshold,
		ForegroundCells: grid.ForegroundCount(),
		ImageBase64:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:        "image/png",
	}, nil
}

// TraceResult describes the contours found in an image.
type TraceResult struct {
	Count    int                  `json:"count"`
	Points   int                  `json:"points"`
	Bounds   *contour.BoundingBox `json:"bounds,omitempty"`
	Stats    contour.Stats        `json:"stats"`
	Contours contour.Set          `json:"contours,omitempty"`
	Message  string               `json:"message,omitempty"`
}

type traceArgs struct {
	conversionArgs
	IncludePoints *bool `json:"include_points"`
}

func (s *Server) handleTraceContours(args json.RawMessage) (interface{}, error) {
	var a traceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, _, err := s.convert(a.conversionArgs)
	if err != nil {
		return nil, err
	}

	out := &TraceResult{
		Count:  len(res.Contours),
		Points: res.Contours.PointCount(),
		Stats:  res.Stats,
	}
	if box, ok := res.Contours.Bounds(); ok {
		out.Bounds = &box
	} else {
		out.Message = preview.EmptyMessage
	}
	if a.IncludePoints == nil || *a.IncludePoints {
		out.Contours = res.Contours
	}
	return out, nil
}

// GenerateResult contains a compiled G-code program.
type GenerateResult struct {
	GCode         string        `json:"gcode"`
	Paths         int           `json:"paths"`
	Lines         int           `json:"lines"`
	LinearMoves   int           `json:"linear_moves"`
	Feed          int           `json:"feed"`
	Scale         float64       `json:"scale"`
	Stats         contour.Stats `json:"stats"`
	OutputPath    string        `json:"output_path,omitempty"`
	PreviewBase64 string        `json:"preview_base64,omitempty"`
	MimeType      string        `json:"mime_type,omitempty"`
	Message       string        `json:"message,omitempty"`
}

type generateArgs struct {
	conversionArgs
	OutputPath     string `json:"output_path"`
	IncludePreview bool   `json:"include_preview"`
}

func (s *Server) handleGenerate(args json.RawMessage) (interface{}, error) {
	var a generateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, opts, err := s.convert(a.conversionArgs)
	if err != nil {
		return nil, err
	}

	prog := res.Program
	out := &GenerateResult{
		GCode:       prog.String(),
		Paths:       prog.Paths,
		Lines:       len(prog.Lines()),
		LinearMoves: prog.LinearMoves,
		Feed:        opts.Feed,
		Scale:       opts.Scale,
		Stats:       res.Stats,
	}
	if prog.Empty() {
		out.Message = preview.EmptyMessage
	}

	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, []byte(out.GCode), 0644); err != nil {
			return nil, fmt.Errorf("failed to write program: %w", err)
		}
		out.OutputPath = a.OutputPath
		s.log.Info().Str("output", a.OutputPath).Int("paths", prog.Paths).Msg("wrote program")
	}

	if a.IncludePreview {
		popts := preview.DefaultOptions()
		popts.Width, popts.Height = s.cfg.PreviewWidth, s.cfg.PreviewHeight
		b64, err := preview.EncodePNG(res.Contours, popts)
		if err != nil {
			return nil, err
		}
		out.PreviewBase64 = b64
		out.MimeType = "image/png"
	}

	return out, nil
}

// PreviewResult contains a rendered path preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Paths       int    `json:"paths"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Message     string `json:"message,omitempty"`
}

type previewArgs struct {
	conversionArgs
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	StrokeColor     string `json:"stroke_color"`
	BackgroundColor string `json:"background_color"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, _, err := s.convert(a.conversionArgs)
	if err != nil {
		return nil, err
	}

	popts := preview.DefaultOptions()
	popts.Width, popts.Height = s.cfg.PreviewWidth, s.cfg.PreviewHeight
	if a.Width > 0 {
		popts.Width = a.Width
	}
	if a.Height > 0 {
		popts.Height = a.Height
	}
	if a.StrokeColor != "" {
		popts.Stroke = a.StrokeColor
	}
	if a.BackgroundColor != "" {
		popts.Background = a.BackgroundColor
	}

	b64, err := preview.EncodePNG(res.Contours, popts)
	if err != nil {
		return nil, err
	}

	out := &PreviewResult{
		Width:       popts.Width,
		Height:      popts.Height,
		Paths:       len(res.Contours),
		ImageBase64: b64,
		MimeType:    "image/png",
	}
	if len(res.Contours) == 0 {
		out.Message = preview.EmptyMessage
	}
	return out, nil
}
