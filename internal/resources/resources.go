package resources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/calendar"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/server"
)

const (
	// UpcomingURI lists the next events on the calendar.
	UpcomingURI = "calendar://upcoming"
	// EventURIPrefix is followed by an event API ID.
	EventURIPrefix = "event://"

	mimeJSON = "application/json"

	upcomingLimit = 20
)

var resourceCodec = codec.New(codec.WithIndent("  "))

// RegisterResources registers the calendar and event resources.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	upcoming := mcp.NewResource(
		UpcomingURI,
		"Upcoming Events",
		mcp.WithResourceDescription(fmt.Sprintf("The next %d events on the calendar", upcomingLimit)),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(upcoming, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUpcoming(ctx, request, sc, time.Now())
	})

	eventTemplate := mcp.NewResourceTemplate(
		EventURIPrefix+"{event_api_id}",
		"Event",
		mcp.WithTemplateDescription("An event with its hosts"),
		mcp.WithTemplateMIMEType(mimeJSON),
	)
	s.AddResourceTemplate(eventTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleEvent(ctx, request, sc)
	})

	return nil
}

func handleUpcoming(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext, now time.Time) ([]mcp.ResourceContents, error) {
	after := now.UTC()
	entries, err := eventcal.Collect(eventcal.Take(sc.Calendar().ListEvents(ctx, calendar.ListEventsOptions{After: &after}), upcomingLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	return jsonContents(request.Params.URI, map[string]any{
		"after":   after,
		"count":   len(entries),
		"entries": entries,
	})
}

func handleEvent(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	eventID, err := eventIDFromURI(request.Params.URI)
	if err != nil {
		return nil, err
	}

	resp, err := sc.Events().GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}

	return jsonContents(request.Params.URI, resp)
}

func eventIDFromURI(uri string) (string, error) {
	id, ok := strings.CutPrefix(uri, EventURIPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("invalid event resource URI: %s", uri)
	}
	return id, nil
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := resourceCodec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		},
	}, nil
}
