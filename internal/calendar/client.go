package calendar

import (
	"context"
	"iter"
	"net/url"

	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/dispatch"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/pagination"
)

const endpoint = "/public/v1/calendar"

// Operation names, used in logs, metrics and spans
const (
	OpListEvents   = "list_events"
	OpImportPeople = "import_people"
)

// Manager wraps the calendar endpoints
type Manager struct {
	d *dispatch.Dispatcher
}

// NewManager creates a Manager sending requests through d
func NewManager(d *dispatch.Dispatcher) *Manager {
	return &Manager{d: d}
}

// ListEvents lists the calendar's events, fetching pages as the sequence is consumed.
// Bounds are sent in UTC at full precision.
func (m *Manager) ListEvents(ctx context.Context, opts ListEventsOptions) iter.Seq2[model.CalendarEntry, error] {
	filters := url.Values{}
	if opts.Before != nil {
		filters.Set("before", codec.FormatBound(*opts.Before))
	}
	if opts.After != nil {
		filters.Set("after", codec.FormatBound(*opts.After))
	}
	return pagination.Paginate[model.CalendarEntry](ctx, m.d, OpListEvents, endpoint+"/list-events", filters)
}

// ImportPeople adds people to the calendar
func (m *Manager) ImportPeople(ctx context.Context, req ImportPeopleRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpImportPeople, endpoint+"/import-people", req))
}
