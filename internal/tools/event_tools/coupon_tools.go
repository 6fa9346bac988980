package event_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/server"
	"github.com/teemow/eventcal/internal/tools/common"
)

func registerCouponTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createCouponTool := mcp.NewTool("event_create_coupon",
		mcp.WithDescription("Create a discount code for an event"),
		eventIDOption(),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The code guests enter at checkout"),
		),
		mcp.WithNumber("remaining_count",
			mcp.Required(),
			mcp.Description("How often the code can be used"),
		),
		mcp.WithString("discount_type",
			mcp.Required(),
			mcp.Description("Kind of discount"),
			mcp.Enum(event.DiscountPercent, event.DiscountCents),
		),
		mcp.WithNumber("percent_off",
			mcp.Description("Discount in percent, for discount_type 'percent'"),
		),
		mcp.WithNumber("cents_off",
			mcp.Description("Discount in cents, for discount_type 'cents'"),
		),
		mcp.WithString("currency",
			mcp.Description("Currency of cents_off (e.g. 'usd')"),
		),
	)
	addTool(s, sc, createCouponTool, event.OpCreateCoupon, handleCreateCoupon)

	updateCouponTool := mcp.NewTool("event_update_coupon",
		mcp.WithDescription("Change how often a coupon can still be used"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The coupon code"),
		),
		mcp.WithNumber("remaining_count",
			mcp.Required(),
			mcp.Description("New number of remaining uses"),
		),
	)
	addTool(s, sc, updateCouponTool, event.OpUpdateCoupon, handleUpdateCoupon)

	return nil
}

func handleCreateCoupon(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req, err := createCouponRequest(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Events().CreateCoupon(ctx, req); err != nil {
		return common.ErrorResult("create coupon", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Coupon %s created for event %s", req.Code, req.EventAPIID)), nil
}

func createCouponRequest(args map[string]any) (event.CreateCouponRequest, error) {
	var req event.CreateCouponRequest

	eventID, err := common.RequiredString(args, common.ArgEventID)
	if err != nil {
		return req, err
	}
	code, err := common.RequiredString(args, "code")
	if err != nil {
		return req, err
	}
	remaining, err := remainingCount(args)
	if err != nil {
		return req, err
	}

	req = event.CreateCouponRequest{
		EventAPIID:     eventID,
		Code:           code,
		RemainingCount: remaining,
		DiscountType:   common.StringArg(args, "discount_type"),
	}

	switch req.DiscountType {
	case event.DiscountPercent:
		req.PercentOff = common.IntArg(args, "percent_off", 0)
		if req.PercentOff <= 0 || req.PercentOff > 100 {
			return req, errors.New("percent_off must be between 1 and 100")
		}
	case event.DiscountCents:
		req.CentsOff = common.IntArg(args, "cents_off", 0)
		req.Currency = common.StringArg(args, "currency")
		if req.CentsOff <= 0 {
			return req, errors.New("cents_off must be positive")
		}
		if req.Currency == "" {
			return req, fmt.Errorf("currency is required for discount_type %q", event.DiscountCents)
		}
	default:
		return req, fmt.Errorf("discount_type must be %q or %q", event.DiscountPercent, event.DiscountCents)
	}

	return req, nil
}

func handleUpdateCoupon(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	code, err := common.RequiredString(args, "code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	remaining, err := remainingCount(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Events().UpdateCoupon(ctx, event.UpdateCouponRequest{Code: code, RemainingCount: remaining}); err != nil {
		return common.ErrorResult("update coupon", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Coupon %s now has %d remaining uses", code, remaining)), nil
}

func remainingCount(args map[string]any) (int, error) {
	n := common.IntArg(args, "remaining_count", -1)
	if n < 0 {
		return 0, errors.New("remaining_count is required and must not be negative")
	}
	return n, nil
}
