// Package server implements the MCP (Model Context Protocol) server for seam carving.
//
// This package provides a JSON-RPC 2.0 server that exposes content-aware image
// resizing through the MCP protocol, so that an assistant can narrow images,
// inspect energy and seams, and drive an interactive carving workspace.
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
// Image Information:
//   - image_dimensions: Get width, height and the largest removable column count
//
// One-shot Carving:
//   - seam_carve: Remove N minimum-energy seams, optionally guided by a mask
//   - seam_find: Show the next seam that would be removed
//   - energy_map: Energy statistics and heatmap
//
// Masks:
//   - mask_from_regions: Paint a remove/protect mask from rectangles
//   - mask_analyze: Summarise an existing mask
//
// Workspaces:
//   - workspace_open, workspace_carve, workspace_view, workspace_save,
//     workspace_reset, workspace_close, workspace_list
//
// A workspace keeps the source, its mask and a result between calls. Each
// workspace_carve narrows the result by a few more columns (the configured
// carve step, 4 by default), reading the original mask every time.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images keyed by path.
// Files written by the server are evicted from the cache so later loads see
// the new content.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or -32602 (bad arguments, unknown tool)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	srv := server.New(cfg, logger)
//	return srv.Serve(ctx, os.Stdin, os.Stdout)
package server
