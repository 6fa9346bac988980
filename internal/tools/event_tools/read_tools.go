package event_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/common"
)

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getEventTool := mcp.NewTool("event_get",
		mcp.WithDescription("Get an event with its hosts"),
		eventIDOption(),
	)
	addTool(s, sc, getEventTool, event.OpGetEvent, handleGetEvent)

	listGuestsTool := mcp.NewTool("event_list_guests",
		mcp.WithDescription("List the guests of an event"),
		eventIDOption(),
		mcp.WithString("approval_status",
			mcp.Description("Only guests with this status"),
			mcp.Enum(model.ApprovalApproved, model.ApprovalSession, model.ApprovalPendingApproval,
				model.ApprovalInvited, model.ApprovalDeclined, model.ApprovalWaitlist),
		),
		mcp.WithString("sort_column",
			mcp.Description("Column to sort by (e.g. 'name', 'email', 'created_at', 'registered_at', 'checked_in_at')"),
		),
		mcp.WithString("sort_direction",
			mcp.Description("Sort direction"),
			mcp.Enum(event.SortAsc, event.SortDesc),
		),
		mcp.WithNumber(common.ArgLimit,
			mcp.Description(fmt.Sprintf("Maximum number of guests to return (default: %d, 0 for all)", common.DefaultListLimit)),
		),
	)
	addTool(s, sc, listGuestsTool, event.OpGetGuests, handleListGuests)

	getGuestTool := mcp.NewTool("event_get_guest",
		mcp.WithDescription("Get a single guest of an event. Provide exactly one of guest_api_id, email or proxy_key."),
		eventIDOption(),
		mcp.WithString("guest_api_id",
			mcp.Description("The ID of the guest"),
		),
		mcp.WithString(common.ArgEmail,
			mcp.Description("The guest's email address"),
		),
		mcp.WithString("proxy_key",
			mcp.Description("The guest's proxy key"),
		),
	)
	addTool(s, sc, getGuestTool, event.OpGetGuest, handleGetGuest)

	return nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID, err := common.RequiredString(request.GetArguments(), common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := sc.Events().GetEvent(ctx, eventID)
	if err != nil {
		return common.ErrorResult("get event", err), nil
	}

	return common.JSONResult(resp)
}

func handleListGuests(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := event.GuestsOptions{
		ApprovalStatus: common.StringArg(args, "approval_status"),
		SortColumn:     common.StringArg(args, "sort_column"),
		SortDirection:  common.StringArg(args, "sort_direction"),
	}
	limit := common.IntArg(args, common.ArgLimit, common.DefaultListLimit)

	entries, err := eventcal.Collect(eventcal.Take(sc.Events().GetGuests(ctx, eventID, opts), limit))
	if err != nil {
		return common.ErrorResult("list guests", err), nil
	}

	return common.JSONResult(map[string]any{
		"event_api_id": eventID,
		"count":        len(entries),
		"entries":      entries,
	})
}

func handleGetGuest(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lookup := event.GuestLookup{
		APIID:    common.StringArg(args, "guest_api_id"),
		Email:    common.StringArg(args, common.ArgEmail),
		ProxyKey: common.StringArg(args, "proxy_key"),
	}

	resp, err := sc.Events().GetGuest(ctx, eventID, lookup)
	if errors.Is(err, event.ErrInvalidGuestLookup) {
		return mcp.NewToolResultError("provide exactly one of guest_api_id, email or proxy_key"), nil
	}
	if err != nil {
		return common.ErrorResult("get guest", err), nil
	}

	return common.JSONResult(resp)
}
