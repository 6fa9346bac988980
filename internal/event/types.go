package event

import (
	"errors"

	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/model"
)

// ErrInvalidGuestLookup is returned when a guest lookup does not name
// exactly one of api id, email or proxy key.
var ErrInvalidGuestLookup = errors.New("event: guest lookup needs exactly one of api id, email or proxy key")

// Guest status values accepted by UpdateGuestStatus.
const (
	GuestStatusApproved = "approved"
	GuestStatusDeclined = "declined"
)

// Host access levels.
const (
	AccessLevelNone    = "none"
	AccessLevelCheckIn = "check-in"
	AccessLevelManager = "manager"
)

// Coupon discount types.
const (
	DiscountPercent = "percent"
	DiscountCents   = "cents"
)

// Sort directions for guest listings.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// CreateEventRequest describes a new event.
type CreateEventRequest struct {
	Name                string             `json:"name"`
	StartAt             codec.Time         `json:"start_at"`
	Timezone            string             `json:"timezone"`
	EndAt               codec.Time         `json:"end_at"`
	RequireRSVPApproval bool               `json:"require_rsvp_approval"`
	MeetingURL          string             `json:"meeting_url,omitempty"`
	GeoAddressJSON      *model.GeoLocation `json:"geo_address_json,omitempty"`
	GeoLatitude         string             `json:"geo_latitude,omitempty"`
	GeoLongitude        string             `json:"geo_longitude,omitempty"`
}

// CreateEventResponse identifies the created event.
type CreateEventResponse struct {
	APIID string `json:"api_id"`
}

// GetEventResponse is an event with its hosts.
type GetEventResponse struct {
	Event *model.Event      `json:"event"`
	Hosts []model.EventHost `json:"hosts"`
}

// UpdateEventRequest changes an existing event. Empty fields are not sent.
type UpdateEventRequest struct {
	EventAPIID     string              `json:"event_api_id"`
	Name           string              `json:"name,omitempty"`
	Visibility     string              `json:"visibility,omitempty"`
	GeoAddressJSON *model.EventContact `json:"geo_address_json,omitempty"`
	GeoLatitude    string              `json:"geo_latitude,omitempty"`
	GeoLongitude   string              `json:"geo_longitude,omitempty"`
}

// GuestsOptions filters and orders a guest listing.
type GuestsOptions struct {
	ApprovalStatus string
	SortColumn     string
	SortDirection  string
}

// GuestLookup identifies a single guest. Set exactly one field.
type GuestLookup struct {
	APIID    string
	Email    string
	ProxyKey string
}

func (l GuestLookup) validate() error {
	set := 0
	for _, v := range []string{l.APIID, l.Email, l.ProxyKey} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return ErrInvalidGuestLookup
	}
	return nil
}

// GetGuestResponse is the guest returned by GetGuest.
type GetGuestResponse struct {
	model.EventEntry
}

// AddGuestsRequest adds guests to an event.
type AddGuestsRequest struct {
	EventAPIID string                 `json:"event_api_id"`
	Guests     []model.EventGuestItem `json:"guests"`
}

// UpdateGuestStatusRequest approves or declines a guest.
type UpdateGuestStatusRequest struct {
	EventAPIID   string               `json:"event_api_id"`
	Guest        model.EventGuestItem `json:"guest"`
	Status       string               `json:"status"`
	ShouldRefund bool                 `json:"should_refund"`
}

// AddHostRequest adds a host to an event.
type AddHostRequest struct {
	EventAPIID  string `json:"event_api_id"`
	Email       string `json:"email"`
	AccessLevel string `json:"access_level,omitempty"`
	IsVisible   bool   `json:"is_visible"`
	Name        string `json:"name,omitempty"`
}

// CreateCouponRequest creates a discount code for an event.
type CreateCouponRequest struct {
	EventAPIID     string `json:"event_api_id"`
	Code           string `json:"code"`
	RemainingCount int    `json:"remaining_count"`
	DiscountType   string `json:"discount_type"`
	PercentOff     int    `json:"percent_off,omitempty"`
	CentsOff       int    `json:"cents_off,omitempty"`
	Currency       string `json:"currency,omitempty"`
}

// UpdateCouponRequest changes how often a coupon can still be used.
type UpdateCouponRequest struct {
	Code           string `json:"code"`
	RemainingCount int    `json:"remaining_count"`
}
