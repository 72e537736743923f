// Package mcpserver exposes the calculator tools to MCP clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/njchilds90/ccalc"
	"github.com/njchilds90/ccalc/internal/logging"
)

// Server wraps a Calculator as an MCP server.
type Server struct {
	calc      *ccalc.Calculator
	log       *slog.Logger
	mcpServer *server.MCPServer
}

// New registers one MCP tool per calculator tool. logger may be nil.
func New(calc *ccalc.Calculator, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		calc:      calc,
		log:       logger,
		mcpServer: server.NewMCPServer("ccalc", version),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcpServer }

// ServeStdio serves on stdin and stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Listen serves on the given streams until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

func toolFor(spec ccalc.ToolSpec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Params {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Type {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(spec.Name, opts...)
}

func (s *Server) registerTools() {
	for _, spec := range ccalc.ToolSpecs() {
		s.mcpServer.AddTool(toolFor(spec), s.handler(spec.Name))
	}
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := s.calc.HandleToolCall(ctx, ccalc.ToolRequest{Tool: name, Params: request.GetArguments()})
		if resp.Error != "" {
			s.log.Debug("mcp tool failed", "tool", name, "error", resp.Error)
			return mcp.NewToolResultError(resp.Error), nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("encode result", err), nil
		}
		return mcp.NewToolResultStructured(resp, string(data)), nil
	}
}
