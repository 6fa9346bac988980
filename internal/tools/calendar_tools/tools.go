package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/calendar"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/common"
)

// RegisterCalendarTools registers all calendar tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List the events of the calendar, optionally within a time window"),
		mcp.WithString("after",
			mcp.Description("Only events starting at or after this time (ISO-8601, e.g. '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("before",
			mcp.Description("Only events starting before this time (ISO-8601)"),
		),
		mcp.WithNumber(common.ArgLimit,
			mcp.Description(fmt.Sprintf("Maximum number of events to return (default: %d, 0 for all)", common.DefaultListLimit)),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandler("calendar_list_events", calendar.OpListEvents, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	if sc.ReadOnly() {
		return nil
	}

	importPeopleTool := mcp.NewTool("calendar_import_people",
		mcp.WithDescription("Import people into the calendar, optionally tagging them"),
		mcp.WithString("people",
			mcp.Required(),
			mcp.Description("Comma-separated list of addresses, either 'jane@example.com' or 'Jane Doe <jane@example.com>'"),
		),
		mcp.WithString("tag_api_ids",
			mcp.Description("Comma-separated list of tag IDs to apply to the imported people"),
		),
	)

	s.AddTool(importPeopleTool, common.InstrumentedToolHandler("calendar_import_people", calendar.OpImportPeople, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleImportPeople(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	after, err := common.TimeArg(args, "after")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	before, err := common.TimeArg(args, "before")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if after != nil && before != nil && !after.Before(*before) {
		return mcp.NewToolResultError("after must be earlier than before"), nil
	}

	limit := common.IntArg(args, common.ArgLimit, common.DefaultListLimit)
	entries, err := eventcal.Collect(eventcal.Take(sc.Calendar().ListEvents(ctx, calendar.ListEventsOptions{
		Before: before,
		After:  after,
	}), limit))
	if err != nil {
		return common.ErrorResult("list events", err), nil
	}

	return common.JSONResult(map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

func handleImportPeople(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	addrs, err := common.AddressesArg(args, "people")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(addrs) == 0 {
		return mcp.NewToolResultError("people is required"), nil
	}

	people := make([]model.PersonInfo, 0, len(addrs))
	for _, addr := range addrs {
		people = append(people, model.PersonInfo{Email: addr.Address, Name: addr.Name})
	}

	err = sc.Calendar().ImportPeople(ctx, calendar.ImportPeopleRequest{
		Infos:     people,
		TagAPIIDs: common.ListArg(args, "tag_api_ids"),
	})
	if err != nil {
		return common.ErrorResult("import people", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Imported %d people into the calendar", len(people))), nil
}
