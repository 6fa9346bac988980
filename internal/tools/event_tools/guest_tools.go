package event_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/batch"
	"github.com/teemow/eventcal/internal/tools/common"
)

func registerGuestTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	addGuestsTool := mcp.NewTool("event_add_guests",
		mcp.WithDescription("Add guests to an event"),
		eventIDOption(),
		mcp.WithString("guests",
			mcp.Required(),
			mcp.Description("Comma-separated list of addresses, either 'jane@example.com' or 'Jane Doe <jane@example.com>'"),
		),
	)
	addTool(s, sc, addGuestsTool, event.OpAddGuests, handleAddGuests)

	updateStatusTool := mcp.NewTool("event_update_guest_status",
		mcp.WithDescription("Approve or decline one or more guests of an event"),
		eventIDOption(),
		mcp.WithString(common.ArgEmail,
			mcp.Required(),
			mcp.Description("The guest's email address, or a comma-separated list of addresses"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status of the guest"),
			mcp.Enum(event.GuestStatusApproved, event.GuestStatusDeclined),
		),
		mcp.WithBoolean("should_refund",
			mcp.Description("Refund the guest's ticket when declining"),
		),
	)
	addTool(s, sc, updateStatusTool, event.OpUpdateGuestStatus, handleUpdateGuestStatus)

	return nil
}

func handleAddGuests(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	addrs, err := common.AddressesArg(args, "guests")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(addrs) == 0 {
		return mcp.NewToolResultError("guests is required"), nil
	}

	guests := make([]model.EventGuestItem, 0, len(addrs))
	for _, addr := range addrs {
		guests = append(guests, model.EventGuestItem{Email: addr.Address, Name: addr.Name})
	}

	if err := sc.Events().AddGuests(ctx, event.AddGuestsRequest{EventAPIID: eventID, Guests: guests}); err != nil {
		return common.ErrorResult("add guests", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added %d guests to event %s", len(guests), eventID)), nil
}

func handleUpdateGuestStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	emails, err := batch.ParseStringOrArray(args[common.ArgEmail], common.ArgEmail)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := common.RequiredString(args, "status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status != event.GuestStatusApproved && status != event.GuestStatusDeclined {
		return mcp.NewToolResultError(fmt.Sprintf("status must be %q or %q", event.GuestStatusApproved, event.GuestStatusDeclined)), nil
	}
	shouldRefund := common.BoolArg(args, "should_refund", false)

	results := batch.Process(ctx, emails, func(ctx context.Context, email string) (string, error) {
		err := sc.Events().UpdateGuestStatus(ctx, event.UpdateGuestStatusRequest{
			EventAPIID:   eventID,
			Guest:        model.EventGuestItem{Email: email},
			Status:       status,
			ShouldRefund: shouldRefund,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("guest is now %s", status), nil
	})

	summary := batch.Summarize(results)
	result, err := common.JSONResult(summary)
	if err != nil {
		return nil, err
	}
	if summary.Successful == 0 {
		result.IsError = true
	}
	return result, nil
}
