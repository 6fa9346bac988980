package common

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/eventcal/internal/apierror"
	"github.com/teemow/eventcal/internal/codec"
)

var resultCodec = codec.New(codec.WithIndent("  "))

// JSONResult renders v as an indented JSON text result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := resultCodec.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult turns an API failure into a tool error result. The status
// code and the server's message are included when available.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	if apiErr, ok := apierror.As(err); ok {
		msg := fmt.Sprintf("Failed to %s: %s (status %d)", action, apiErr.Message, apiErr.StatusCode)
		if apiErr.API != nil && apiErr.API.Message != "" {
			msg += ": " + apiErr.API.Message
		}
		return mcp.NewToolResultError(msg)
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}
