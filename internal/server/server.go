package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
	"github.com/ironsheep/seamcarve-mcp/internal/config"
	"github.com/ironsheep/seamcarve-mcp/internal/imaging"
	"github.com/ironsheep/seamcarve-mcp/internal/session"
)

// ServerName is reported to clients during initialize.
const ServerName = "seamcarve-mcp"

// maxRequestSize bounds a single JSON-RPC line.
const maxRequestSize = 16 * 1024 * 1024

// Server handles MCP protocol communication
type Server struct {
	// Version is reported to clients during initialize.
	Version string

	cache   *imaging.ImageCache
	store   *session.Store
	cropper *carving.Cropper
	cfg     *config.Config
	logger  *log.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a new MCP server instance. A nil cfg means config.Default(),
// a nil logger means log.Default().
func New(cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Version: "0.1.0",
		cache:   imaging.NewImageCache(cfg.MaxPixels),
		store:   session.NewStore(session.DefaultMaxWorkspaces),
		cropper: &carving.Cropper{
			Logger:     logger.WithPrefix("carve"),
			Sequential: cfg.SequentialEnergy,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted or ctx is done. Cancellation returns ctx.Err(); a
// carve in progress is stopped at its next seam.
//
// Lines are read on a separate goroutine so that a blocked read cannot delay
// shutdown. That goroutine exits once r returns EOF or an error.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		// Increase buffer size for large requests
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, maxRequestSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(w)
	for {
		var line string
		select {
		case <-ctx.Done():
			s.logger.Debug("server stopped", "reason", ctx.Err(), "workspaces", s.store.Len())
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := <-readErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				s.logger.Debug("input closed", "workspaces", s.store.Len())
				return nil
			}
			line = l
		}
		if line == "" {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.logger.Warn("failed to parse request", "err", err)
			resp = s.errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(ctx, &req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
		}
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    codeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": s.Version,
			},
		},
	}
}
