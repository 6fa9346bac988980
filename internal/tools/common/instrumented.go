package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/eventcal/internal/instrumentation"
	"github.com/teemow/eventcal/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps handler with a tool span, the tool metrics and
// an audit record. operation names the API operation the tool performs.
//
//	s.AddTool(tool, common.InstrumentedToolHandler("event_get", event.OpGetEvent, sc, handler))
func InstrumentedToolHandler(toolName, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		call := instrumentation.ToolCall{
			Tool:      toolName,
			Operation: operation,
			EventID:   StringArg(args, ArgEventID),
			ReadOnly:  sc.ReadOnly(),
		}

		ctx, span := instrumentation.StartToolSpan(ctx, call)
		invocation := instrumentation.BeginToolInvocation(ctx, call, StringArg(args, ArgEmail))

		result, err := handler(ctx, request)

		errorResult := result != nil && result.IsError
		invocation.Finish(errorResult, err)
		if err == nil && errorResult {
			span.SetAttributes(instrumentation.AttrToolErrorResult.Bool(true))
		}
		instrumentation.EndSpan(span, err)

		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), invocation.Duration)
		sc.AuditLogger().Log(ctx, invocation)

		return result, err
	}
}
