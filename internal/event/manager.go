package event

import (
	"context"
	"iter"
	"net/url"

	"github.com/teemow/eventcal/internal/dispatch"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/pagination"
)

const endpoint = "/public/v1/event"

// Operation names.
const (
	OpCreateEvent       = "create_event"
	OpGetEvent          = "get_event"
	OpUpdateEvent       = "update_event"
	OpGetGuests         = "get_guests"
	OpGetGuest          = "get_guest"
	OpAddGuests         = "add_guests"
	OpUpdateGuestStatus = "update_guest_status"
	OpAddHost           = "add_host"
	OpCreateCoupon      = "create_coupon"
	OpUpdateCoupon      = "update_coupon"
)

// Manager wraps the event endpoints.
type Manager struct {
	d *dispatch.Dispatcher
}

// NewManager creates a Manager sending requests through d.
func NewManager(d *dispatch.Dispatcher) *Manager {
	return &Manager{d: d}
}

// CreateEvent creates an event and returns its id.
func (m *Manager) CreateEvent(ctx context.Context, req CreateEventRequest) (*CreateEventResponse, error) {
	resp, err := dispatch.Send[CreateEventResponse](ctx, m.d, dispatch.Post(OpCreateEvent, endpoint+"/create", req))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEvent returns the event with the given api id and its hosts.
func (m *Manager) GetEvent(ctx context.Context, apiID string) (*GetEventResponse, error) {
	q := url.Values{}
	dispatch.AddParam(q, "api_id", apiID)

	resp, err := dispatch.Send[GetEventResponse](ctx, m.d, dispatch.Get(OpGetEvent, endpoint+"/get", q))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateEvent changes an existing event.
func (m *Manager) UpdateEvent(ctx context.Context, req UpdateEventRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpUpdateEvent, endpoint+"/update", req))
}

// GetGuests lists an event's guests, fetching pages as the sequence is consumed.
func (m *Manager) GetGuests(ctx context.Context, eventAPIID string, opts GuestsOptions) iter.Seq2[model.EventEntry, error] {
	filters := url.Values{}
	dispatch.AddParam(filters, "event_api_id", eventAPIID)
	dispatch.AddParam(filters, "approval_status", opts.ApprovalStatus)
	dispatch.AddParam(filters, "sort_column", opts.SortColumn)
	dispatch.AddParam(filters, "sort_direction", opts.SortDirection)

	return pagination.Paginate[model.EventEntry](ctx, m.d, OpGetGuests, endpoint+"/get-guests", filters)
}

// GetGuest returns one guest of an event. lookup must set exactly one
// field; otherwise ErrInvalidGuestLookup is returned and nothing is sent.
func (m *Manager) GetGuest(ctx context.Context, eventAPIID string, lookup GuestLookup) (*GetGuestResponse, error) {
	if err := lookup.validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	dispatch.AddParam(q, "event_api_id", eventAPIID)
	dispatch.AddParam(q, "api_id", lookup.APIID)
	dispatch.AddParam(q, "email", lookup.Email)
	dispatch.AddParam(q, "proxy_key", lookup.ProxyKey)

	resp, err := dispatch.Send[GetGuestResponse](ctx, m.d, dispatch.Get(OpGetGuest, endpoint+"/get-guest", q))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddGuests adds guests to an event.
func (m *Manager) AddGuests(ctx context.Context, req AddGuestsRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpAddGuests, endpoint+"/add-guests", req))
}

// UpdateGuestStatus approves or declines a guest.
func (m *Manager) UpdateGuestStatus(ctx context.Context, req UpdateGuestStatusRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpUpdateGuestStatus, endpoint+"/update-guest-status", req))
}

// AddHost adds a host to an event.
func (m *Manager) AddHost(ctx context.Context, req AddHostRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpAddHost, endpoint+"/add-host", req))
}

// CreateCoupon creates a coupon for an event.
func (m *Manager) CreateCoupon(ctx context.Context, req CreateCouponRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpCreateCoupon, endpoint+"/create-coupon", req))
}

// UpdateCoupon changes a coupon's remaining count.
func (m *Manager) UpdateCoupon(ctx context.Context, req UpdateCouponRequest) error {
	return dispatch.Exec(ctx, m.d, dispatch.PostNoContent(OpUpdateCoupon, endpoint+"/update-coupon", req))
}
