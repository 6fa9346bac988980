package event_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/common"
)

// RegisterEventTools registers all event tools with the MCP server.
// Write tools are skipped in read-only mode.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event read tools: %w", err)
	}

	if sc.ReadOnly() {
		return nil
	}

	if err := registerWriteTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event write tools: %w", err)
	}
	if err := registerGuestTools(s, sc); err != nil {
		return fmt.Errorf("failed to register guest tools: %w", err)
	}
	if err := registerCouponTools(s, sc); err != nil {
		return fmt.Errorf("failed to register coupon tools: %w", err)
	}

	return nil
}

// handlerFunc adapts a handler taking the server context to an MCP tool handler.
func handlerFunc(sc *server.ServerContext, h func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error)) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h(ctx, request, sc)
	}
}

func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string,
	h func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error)) {
	s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, operation, sc, handlerFunc(sc, h)))
}

func eventIDOption() mcp.ToolOption {
	return mcp.WithString(common.ArgEventID,
		mcp.Required(),
		mcp.Description("The ID of the event (e.g. 'evt-abc123')"),
	)
}
