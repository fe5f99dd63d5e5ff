package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
	"github.com/ironsheep/seamcarve-mcp/internal/imaging"
	"github.com/ironsheep/seamcarve-mcp/internal/session"
)

// errInvalidParams marks arguments that could not be decoded.
var errInvalidParams = errors.New("invalid arguments")

// errUnknownTool is returned for a tools/call naming no tool.
var errUnknownTool = errors.New("unknown tool")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "seam_carve", "workspace_open").
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
// Undecodable arguments and unknown tools return -32602. Tool execution errors
// return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		if errors.Is(err, errInvalidParams) || errors.Is(err, errUnknownTool) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool done", "tool", params.Name, "elapsed", time.Since(start).Round(time.Millisecond))

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
//
// Each tool handler:
//  1. Decodes arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images and masks through the cache
//  4. Calls into the carving, imaging or session packages
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// One-shot Carving
	case "seam_carve":
		return s.handleSeamCarve(ctx, args)
	case "seam_find":
		return s.handleSeamFind(args)
	case "energy_map":
		return s.handleEnergyMap(args)

	// Masks
	case "mask_from_regions":
		return s.handleMaskFromRegions(args)
	case "mask_analyze":
		return s.handleMaskAnalyze(args)

	// Workspaces
	case "workspace_open":
		return s.handleWorkspaceOpen(args)
	case "workspace_carve":
		return s.handleWorkspaceCarve(ctx, args)
	case "workspace_view":
		return s.handleWorkspaceView(args)
	case "workspace_save":
		return s.handleWorkspaceSave(args)
	case "workspace_reset":
		return s.handleWorkspaceReset(args)
	case "workspace_close":
		return s.handleWorkspaceClose(args)
	case "workspace_list":
		return s.store.List(), nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func requireString(name, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s is required", errInvalidParams, name)
	}
	return nil
}

// previewScale maps an absent scale to 1.
func previewScale(scale float64) float64 {
	if scale == 0 {
		return 1.0
	}
	return scale
}

// encode renders g as a base64 PNG preview, bounded by the image size limit
// the cache enforces on loads.
func (s *Server) encode(g *carving.Grid, scale float64) (*imaging.EncodedImage, error) {
	return imaging.EncodePNG(g, previewScale(scale), s.cache.MaxPixels())
}

// loadWithMask loads an image and its optional mask.
func (s *Server) loadWithMask(imagePath, maskPath string) (*carving.Grid, *carving.Grid, error) {
	if err := requireString("image_path", imagePath); err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(imagePath)
	if err != nil {
		return nil, nil, err
	}
	mask, err := imaging.LoadMask(s.cache, maskPath, img.Width, img.Height)
	if err != nil {
		return nil, nil, err
	}
	return img, mask, nil
}

// save writes g to path and drops any stale cache entry for it.
func (s *Server) save(g *carving.Grid, path string) error {
	if err := imaging.SaveGrid(g, path); err != nil {
		return err
	}
	s.cache.Evict(path)
	return nil
}

// === Image Information Handlers ===

type imageDimensionsArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === One-shot Carving Handlers ===

type seamCarveArgs struct {
	ImagePath    string  `json:"image_path"`
	MaskPath     string  `json:"mask_path"`
	Pixels       *int    `json:"pixels"`
	OutputPath   string  `json:"output_path"`
	IncludeImage *bool   `json:"include_image"`
	Scale        float64 `json:"scale"`
}

// SeamCarveResult is returned by seam_carve.
type SeamCarveResult struct {
	OriginalWidth int                   `json:"original_width"`
	Width         int                   `json:"width"`
	Height        int                   `json:"height"`
	Removed       int                   `json:"removed"`
	OutputPath    string                `json:"output_path,omitempty"`
	Image         *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleSeamCarve(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a seamCarveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Pixels == nil {
		return nil, fmt.Errorf("%w: pixels is required", errInvalidParams)
	}
	img, mask, err := s.loadWithMask(a.ImagePath, a.MaskPath)
	if err != nil {
		return nil, err
	}

	res, err := s.cropper.RunContext(ctx, img, mask, *a.Pixels)
	if err != nil {
		return nil, err
	}

	out := &SeamCarveResult{
		OriginalWidth: img.Width,
		Width:         res.Grid.Width,
		Height:        res.Grid.Height,
		Removed:       *a.Pixels,
	}
	if a.OutputPath != "" {
		if err := s.save(res.Grid, a.OutputPath); err != nil {
			return nil, err
		}
		out.OutputPath = a.OutputPath
	}
	if wantImage(a.IncludeImage, a.OutputPath) {
		out.Image, err = s.encode(res.Grid, a.Scale)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// wantImage reports whether a result should carry its image. Without an
// explicit choice, images are returned only when nothing was written to disk.
func wantImage(include *bool, outputPath string) bool {
	if include != nil {
		return *include
	}
	return outputPath == ""
}

type seamFindArgs struct {
	ImagePath    string  `json:"image_path"`
	MaskPath     string  `json:"mask_path"`
	OverlayColor string  `json:"overlay_color"`
	Scale        float64 `json:"scale"`
}

// SeamFindResult is returned by seam_find.
type SeamFindResult struct {
	Seam        carving.Seam          `json:"seam"`
	TotalEnergy int64                 `json:"total_energy"`
	MinColumn   int                   `json:"min_column"`
	MaxColumn   int                   `json:"max_column"`
	Image       *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleSeamFind(args json.RawMessage) (interface{}, error) {
	var a seamFindArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, mask, err := s.loadWithMask(a.ImagePath, a.MaskPath)
	if err != nil {
		return nil, err
	}

	energy, err := carving.ComputeEnergy(img, mask)
	if err != nil {
		return nil, err
	}
	seam, err := carving.FindMinSeam(energy)
	if err != nil {
		return nil, err
	}

	out := &SeamFindResult{Seam: seam, MinColumn: seam[0], MaxColumn: seam[0]}
	for y, x := range seam {
		out.TotalEnergy += energy.At(x, y)
		out.MinColumn = min(out.MinColumn, x)
		out.MaxColumn = max(out.MaxColumn, x)
	}

	color := a.OverlayColor
	if color == "" {
		color = s.cfg.OverlayColor
	}
	overlay, err := imaging.SeamOverlay(img, []carving.Seam{seam}, color)
	if err != nil {
		return nil, err
	}
	out.Image, err = s.encode(overlay, a.Scale)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type energyMapArgs struct {
	ImagePath    string  `json:"image_path"`
	MaskPath     string  `json:"mask_path"`
	IncludeImage *bool   `json:"include_image"`
	Scale        float64 `json:"scale"`
}

// EnergyMapResult is returned by energy_map.
type EnergyMapResult struct {
	Stats *imaging.EnergyStats  `json:"stats"`
	Image *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleEnergyMap(args json.RawMessage) (interface{}, error) {
	var a energyMapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, mask, err := s.loadWithMask(a.ImagePath, a.MaskPath)
	if err != nil {
		return nil, err
	}

	energy, err := carving.ComputeEnergy(img, mask)
	if err != nil {
		return nil, err
	}
	stats, err := imaging.ComputeEnergyStats(energy)
	if err != nil {
		return nil, err
	}

	out := &EnergyMapResult{Stats: stats}
	if a.IncludeImage == nil || *a.IncludeImage {
		heat, err := imaging.EnergyHeatmap(energy)
		if err != nil {
			return nil, err
		}
		out.Image, err = s.encode(heat, a.Scale)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// === Mask Handlers ===

type maskFromRegionsArgs struct {
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Remove       []imaging.Region `json:"remove"`
	Protect      []imaging.Region `json:"protect"`
	OutputPath   string           `json:"output_path"`
	IncludeImage *bool            `json:"include_image"`
}

// MaskResult is returned by mask_from_regions.
type MaskResult struct {
	Summary    *imaging.MaskSummary  `json:"summary"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleMaskFromRegions(args json.RawMessage) (interface{}, error) {
	var a maskFromRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	mask, err := imaging.MaskFromRegions(a.Width, a.Height, a.Remove, a.Protect)
	if err != nil {
		return nil, err
	}
	summary, err := imaging.AnalyzeMask(mask)
	if err != nil {
		return nil, err
	}

	out := &MaskResult{Summary: summary}
	if a.OutputPath != "" {
		if err := s.save(mask, a.OutputPath); err != nil {
			return nil, err
		}
		out.OutputPath = a.OutputPath
	}
	if wantImage(a.IncludeImage, a.OutputPath) {
		out.Image, err = s.encode(mask, 1.0)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type maskAnalyzeArgs struct {
	MaskPath string `json:"mask_path"`
}

func (s *Server) handleMaskAnalyze(args json.RawMessage) (interface{}, error) {
	var a maskAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("mask_path", a.MaskPath); err != nil {
		return nil, err
	}
	mask, err := s.cache.Load(a.MaskPath)
	if err != nil {
		return nil, err
	}
	return imaging.AnalyzeMask(mask)
}

// === Workspace Handlers ===

type workspaceArgs struct {
	WorkspaceID string `json:"workspace_id"`
}

func (s *Server) workspace(id string) (*session.Workspace, error) {
	if err := requireString("workspace_id", id); err != nil {
		return nil, err
	}
	return s.store.Get(id)
}

type workspaceOpenArgs struct {
	ImagePath string `json:"image_path"`
	MaskPath  string `json:"mask_path"`
}

func (s *Server) handleWorkspaceOpen(args json.RawMessage) (interface{}, error) {
	var a workspaceOpenArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, mask, err := s.loadWithMask(a.ImagePath, a.MaskPath)
	if err != nil {
		return nil, err
	}
	w, err := s.store.Open(img, mask)
	if err != nil {
		return nil, err
	}
	s.logger.Info("workspace opened", "id", w.ID, "image", a.ImagePath, "size", fmt.Sprintf("%dx%d", img.Width, img.Height))
	return w.Info(), nil
}

type workspaceCarveArgs struct {
	WorkspaceID string `json:"workspace_id"`
	Pixels      *int   `json:"pixels"`
}

func (s *Server) handleWorkspaceCarve(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a workspaceCarveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, err := s.workspace(a.WorkspaceID)
	if err != nil {
		return nil, err
	}
	pixels := s.cfg.CarveStep
	if a.Pixels != nil {
		pixels = *a.Pixels
	}
	if _, err := w.Carve(ctx, s.cropper, pixels); err != nil {
		return nil, err
	}
	return w.Info(), nil
}

type workspaceViewArgs struct {
	WorkspaceID string  `json:"workspace_id"`
	Slot        string  `json:"slot"`
	ShowSeams   bool    `json:"show_seams"`
	Scale       float64 `json:"scale"`
}

// WorkspaceViewResult is returned by workspace_view.
type WorkspaceViewResult struct {
	Workspace session.Info          `json:"workspace"`
	Slot      string                `json:"slot"`
	Image     *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleWorkspaceView(args json.RawMessage) (interface{}, error) {
	var a workspaceViewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, err := s.workspace(a.WorkspaceID)
	if err != nil {
		return nil, err
	}

	slot := w.Selected()
	if a.Slot != "" {
		if slot, err = session.ParseSlot(a.Slot); err != nil {
			return nil, err
		}
	}
	if a.ShowSeams && slot != session.SlotSource {
		return nil, fmt.Errorf("%w: show_seams applies to the source slot", carving.ErrInvalidArgument)
	}

	g, err := w.Snapshot(slot)
	if err != nil {
		return nil, err
	}
	if a.ShowSeams {
		seams, err := w.Seams()
		if err != nil {
			return nil, err
		}
		if g, err = imaging.SeamOverlay(g, seams, s.cfg.OverlayColor); err != nil {
			return nil, err
		}
	}

	enc, err := s.encode(g, a.Scale)
	if err != nil {
		return nil, err
	}
	// Only a view that renders becomes the selection.
	if err := w.Select(slot); err != nil {
		return nil, err
	}
	return &WorkspaceViewResult{Workspace: w.Info(), Slot: slot.String(), Image: enc}, nil
}

type workspaceSaveArgs struct {
	WorkspaceID string `json:"workspace_id"`
	OutputPath  string `json:"output_path"`
	Slot        string `json:"slot"`
}

func (s *Server) handleWorkspaceSave(args json.RawMessage) (interface{}, error) {
	var a workspaceSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("output_path", a.OutputPath); err != nil {
		return nil, err
	}
	w, err := s.workspace(a.WorkspaceID)
	if err != nil {
		return nil, err
	}
	slot := session.SlotResult
	if a.Slot != "" {
		if slot, err = session.ParseSlot(a.Slot); err != nil {
			return nil, err
		}
	}
	g, err := w.Snapshot(slot)
	if err != nil {
		return nil, err
	}
	if err := s.save(g, a.OutputPath); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"output_path": a.OutputPath,
		"slot":        slot.String(),
		"width":       g.Width,
		"height":      g.Height,
	}, nil
}

func (s *Server) handleWorkspaceReset(args json.RawMessage) (interface{}, error) {
	var a workspaceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, err := s.workspace(a.WorkspaceID)
	if err != nil {
		return nil, err
	}
	w.Reset()
	return w.Info(), nil
}

func (s *Server) handleWorkspaceClose(args json.RawMessage) (interface{}, error) {
	var a workspaceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("workspace_id", a.WorkspaceID); err != nil {
		return nil, err
	}
	if err := s.store.Close(a.WorkspaceID); err != nil {
		return nil, err
	}
	s.logger.Info("workspace closed", "id", a.WorkspaceID)
	return map[string]interface{}{
		"workspace_id": a.WorkspaceID,
		"closed":       true,
	}, nil
}
