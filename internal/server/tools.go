package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema describes one rectangle in mask_from_regions.
var regionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
		"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
		"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
		"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
	},
	"required": []string{"x1", "y1", "x2", "y2"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file, and how many columns seam carving may remove from it.",
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

		// One-shot Carving
		{
			Name:        "seam_carve",
			Description: "Reduce the width of an image by removing the given number of minimum-energy vertical seams. An optional mask marks pixels to remove (pure red) or protect (pure green).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask image with the same dimensions. Red (R-G > 200) forces removal, green (G-R > 200) protects.",
					},
					"pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Number of columns to remove. Must be less than the image width.",
						"minimum":     0,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the carved image. The format follows the extension.",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the carved image as base64 PNG. Default true when no output_path is given.",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned preview. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"image_path", "pixels"},
			},
		},
		{
			Name:        "seam_find",
			Description: "Find the next seam seam_carve would remove and return its columns with an overlay preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask image with the same dimensions",
					},
					"overlay_color": map[string]interface{}{
						"type":        "string",
						"description": "Seam colour as hex (e.g. \"#FF0000\"). Defaults to the configured overlay colour.",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the preview. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"image_path"},
			},
		},
		{
			Name:        "energy_map",
			Description: "Compute the dual-gradient energy of every pixel and return summary statistics with a heatmap. Masked pixels are shown pure red (forced removal) or pure green (protected).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask image with the same dimensions",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the heatmap as base64 PNG. Default true",
						"default":     true,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the heatmap. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"image_path"},
			},
		},

		// Masks
		{
			Name:        "mask_from_regions",
			Description: "Build a carving mask from rectangles. Remove regions are painted red, protect regions green; protect wins where they overlap.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Mask width; must equal the image width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Mask height; must equal the image height",
					},
					"remove": map[string]interface{}{
						"type":        "array",
						"description": "Regions to force out",
						"items":       regionSchema,
					},
					"protect": map[string]interface{}{
						"type":        "array",
						"description": "Regions to keep",
						"items":       regionSchema,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the mask. Use a lossless format such as .png",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the mask as base64 PNG. Default true when no output_path is given.",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "mask_analyze",
			Description: "Count the removal, protected and neutral pixels of a mask and list columns that are marked top to bottom.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the mask image",
					},
				},
				"required": []string{"mask_path"},
			},
		},

		// Workspaces
		{
			Name:        "workspace_open",
			Description: "Open an interactive carving workspace holding the source image, its mask and a result that workspace_carve narrows step by step.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mask_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional mask image with the same dimensions",
					},
				},
				"required": []string{"image_path"},
			},
		},
		{
			Name:        "workspace_carve",
			Description: "Remove more columns from a workspace result. The original mask is used for every step.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "Workspace identifier from workspace_open",
					},
					"pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Columns to remove in this step. Defaults to the configured carve step (4).",
						"minimum":     0,
					},
				},
				"required": []string{"workspace_id"},
			},
		},
		{
			Name:        "workspace_view",
			Description: "Return one workspace grid (source, mask or result) as base64 PNG and make it the selected view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "Workspace identifier from workspace_open",
					},
					"slot": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"source", "mask", "result"},
						"description": "Grid to view. Defaults to the current selection.",
					},
					"show_seams": map[string]interface{}{
						"type":        "boolean",
						"description": "Paint the seams removed since the last reset onto the source view",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"workspace_id"},
			},
		},
		{
			Name:        "workspace_save",
			Description: "Write one workspace grid to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "Workspace identifier from workspace_open",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Destination path. The format follows the extension.",
					},
					"slot": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"source", "mask", "result"},
						"description": "Grid to save. Default result",
					},
				},
				"required": []string{"workspace_id", "output_path"},
			},
		},
		{
			Name:        "workspace_reset",
			Description: "Restore a workspace result to a copy of its source image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "Workspace identifier from workspace_open",
					},
				},
				"required": []string{"workspace_id"},
			},
		},
		{
			Name:        "workspace_close",
			Description: "Close a workspace and free its images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "Workspace identifier from workspace_open",
					},
				},
				"required": []string{"workspace_id"},
			},
		},
		{
			Name:        "workspace_list",
			Description: "List open workspaces with their current widths.",
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
