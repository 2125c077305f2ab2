package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// conversionProperties are the arguments shared by every tool that thresholds
// and traces an image. Omitted values fall back to the server configuration.
func conversionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP, TIFF, WebP or SVG)",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance threshold (0-255). Pixels brighter than this are foreground.",
			"minimum":     0,
			"maximum":     255,
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert the image before thresholding (trace dark artwork on a light background)",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before thresholding to suppress speckle. 0 disables.",
		},
		"max_dimension": map[string]interface{}{
			"type":        "integer",
			"description": "Downsample so neither side exceeds this many pixels. 0 keeps the original size.",
		},
		"crop": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"description": "Optional region of the image to convert. (x2, y2) is exclusive.",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and pixel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_evict",
			Description: "Drop a decoded image from the server's cache, or every cached image when path is omitted. Use after editing a file on disk or when done with it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to evict; omit to clear the whole cache",
					},
				},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Conversion Stages
		{
			Name:        "image_threshold",
			Description: "Binarize an image at a luminance threshold and return the foreground/background grid as a base64 PNG. Use this to pick a threshold before generating G-code.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": conversionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "gcode_trace_contours",
			Description: "Trace boundary paths between foreground and background and return them as point lists in emission order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(conversionProperties(), map[string]interface{}{
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every contour point in the result (default true)",
						"default":     true,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "gcode_generate",
			Description: "Convert an image to a G-code program that traces its contours at the given feed rate and scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(conversionProperties(), map[string]interface{}{
					"feed": map[string]interface{}{
						"type":        "integer",
						"description": "Feed rate in mm/min",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor. Output mm = (pixel offset from center) * scale / 10",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the program to",
					},
					"include_preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a base64 PNG preview of the traced paths",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "gcode_preview",
			Description: "Render the traced paths of an image as a base64 PNG, normalised to fit the canvas.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(conversionProperties(), map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels",
					},
					"stroke_color": map[string]interface{}{
						"type":        "string",
						"description": "Path color as #RRGGBB (default #6366f1)",
					},
					"background_color": map[string]interface{}{
						"type":        "string",
						"description": "Canvas color as #RRGGBB (default #0f172a)",
					},
				}),
				"required": []string{"path"},
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
