package event_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/common"
)

// defaultTimezone is used when event_create gets no timezone.
const defaultTimezone = "UTC"

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createEventTool := mcp.NewTool("event_create",
		mcp.WithDescription("Create a new event. Provide either end_at or duration."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Event name"),
		),
		mcp.WithString("start_at",
			mcp.Required(),
			mcp.Description("Start time (ISO-8601, e.g. '2025-01-15T18:00:00Z')"),
		),
		mcp.WithString("end_at",
			mcp.Description("End time (ISO-8601)"),
		),
		mcp.WithString("duration",
			mcp.Description("Event length as an ISO-8601 duration (e.g. 'PT1H30M'), used when end_at is not given"),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA time zone of the event (default: UTC, e.g. 'Europe/Berlin')"),
		),
		mcp.WithBoolean("require_rsvp_approval",
			mcp.Description("Require hosts to approve registrations"),
		),
		mcp.WithString("meeting_url",
			mcp.Description("URL of the online meeting"),
		),
		mcp.WithString("address",
			mcp.Description("Street address of the venue"),
		),
	)
	addTool(s, sc, createEventTool, event.OpCreateEvent, handleCreateEvent)

	updateEventTool := mcp.NewTool("event_update",
		mcp.WithDescription("Update the name or visibility of an event"),
		eventIDOption(),
		mcp.WithString("name",
			mcp.Description("New event name"),
		),
		mcp.WithString("visibility",
			mcp.Description("New visibility"),
			mcp.Enum(model.VisibilityPublic, model.VisibilityMembers, model.VisibilityPrivate),
		),
	)
	addTool(s, sc, updateEventTool, event.OpUpdateEvent, handleUpdateEvent)

	addHostTool := mcp.NewTool("event_add_host",
		mcp.WithDescription("Add a host to an event"),
		eventIDOption(),
		mcp.WithString(common.ArgEmail,
			mcp.Required(),
			mcp.Description("Email address of the new host"),
		),
		mcp.WithString("name",
			mcp.Description("Display name of the host"),
		),
		mcp.WithString("access_level",
			mcp.Description("What the host may do (default: manager)"),
			mcp.Enum(event.AccessLevelNone, event.AccessLevelCheckIn, event.AccessLevelManager),
		),
		mcp.WithBoolean("is_visible",
			mcp.Description("Show the host on the event page (default: true)"),
		),
	)
	addTool(s, sc, addHostTool, event.OpAddHost, handleAddHost)

	return nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req, err := createEventRequest(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := sc.Events().CreateEvent(ctx, req)
	if err != nil {
		return common.ErrorResult("create event", err), nil
	}

	return common.JSONResult(resp)
}

// createEventRequest validates the tool arguments and builds the request.
func createEventRequest(args map[string]any) (event.CreateEventRequest, error) {
	var req event.CreateEventRequest

	name, err := common.RequiredString(args, "name")
	if err != nil {
		return req, err
	}
	if _, err := common.RequiredString(args, "start_at"); err != nil {
		return req, err
	}
	start, err := common.TimeArg(args, "start_at")
	if err != nil {
		return req, err
	}

	end, err := common.TimeArg(args, "end_at")
	if err != nil {
		return req, err
	}
	duration := common.StringArg(args, "duration")
	switch {
	case end != nil && duration != "":
		return req, errors.New("provide either end_at or duration, not both")
	case end == nil && duration == "":
		return req, errors.New("end_at or duration is required")
	case end == nil:
		d, err := codec.ParseDuration(duration)
		if err != nil {
			return req, fmt.Errorf("invalid duration: %w", err)
		}
		e := start.Add(d)
		end = &e
	}
	if !end.After(*start) {
		return req, errors.New("event must end after it starts")
	}

	timezone := common.StringArg(args, "timezone")
	if timezone == "" {
		timezone = defaultTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return req, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	req = event.CreateEventRequest{
		Name:                name,
		StartAt:             codec.NewTime(*start),
		EndAt:               codec.NewTime(*end),
		Timezone:            timezone,
		RequireRSVPApproval: common.BoolArg(args, "require_rsvp_approval", false),
		MeetingURL:          common.StringArg(args, "meeting_url"),
	}
	if address := common.StringArg(args, "address"); address != "" {
		req.GeoAddressJSON = &model.GeoLocation{Type: "manual", Address: address}
	}
	return req, nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := event.UpdateEventRequest{
		EventAPIID: eventID,
		Name:       common.StringArg(args, "name"),
		Visibility: common.StringArg(args, "visibility"),
	}
	if req.Name == "" && req.Visibility == "" {
		return mcp.NewToolResultError("nothing to update: provide name or visibility"), nil
	}

	if err := sc.Events().UpdateEvent(ctx, req); err != nil {
		return common.ErrorResult("update event", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event %s updated", eventID)), nil
}

func handleAddHost(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := common.RequiredString(args, common.ArgEmail)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	accessLevel := common.StringArg(args, "access_level")
	if accessLevel == "" {
		accessLevel = event.AccessLevelManager
	}

	err = sc.Events().AddHost(ctx, event.AddHostRequest{
		EventAPIID:  eventID,
		Email:       email,
		Name:        common.StringArg(args, "name"),
		AccessLevel: accessLevel,
		IsVisible:   common.BoolArg(args, "is_visible", true),
	})
	if err != nil {
		return common.ErrorResult("add host", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added %s as host of event %s", email, eventID)), nil
}
