package eventcal

import (
	"iter"

	"github.com/teemow/eventcal/internal/apierror"
	"github.com/teemow/eventcal/internal/calendar"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/model"
	"github.com/teemow/eventcal/internal/pagination"
)

// Errors.
type (
	Error        = apierror.Error
	ErrorPayload = apierror.Payload
)

// Scalars.
type (
	Time     = codec.Time
	Duration = codec.Duration
)

// Page is one page of a listing.
type Page[T any] = pagination.Page[T]

// PageSize is the number of entries requested per page.
const PageSize = pagination.PageSize

// Shared entities.
type (
	CalendarEvent      = model.CalendarEvent
	CalendarEntry      = model.CalendarEntry
	CalendarEntryTag   = model.CalendarEntryTag
	Event              = model.Event
	EventEntry         = model.EventEntry
	EventGuest         = model.EventGuest
	EventGuestItem     = model.EventGuestItem
	EventHost          = model.EventHost
	EventTicket        = model.EventTicket
	RegistrationAnswer = model.RegistrationAnswer
	GeoLocation        = model.GeoLocation
	EventContact       = model.EventContact
	PersonInfo         = model.PersonInfo
)

// Requests and responses.
type (
	ListEventsOptions        = calendar.ListEventsOptions
	ImportPeopleRequest      = calendar.ImportPeopleRequest
	CreateEventRequest       = event.CreateEventRequest
	CreateEventResponse      = event.CreateEventResponse
	GetEventResponse         = event.GetEventResponse
	UpdateEventRequest       = event.UpdateEventRequest
	GuestsOptions            = event.GuestsOptions
	GuestLookup              = event.GuestLookup
	GetGuestResponse         = event.GetGuestResponse
	AddGuestsRequest         = event.AddGuestsRequest
	UpdateGuestStatusRequest = event.UpdateGuestStatusRequest
	AddHostRequest           = event.AddHostRequest
	CreateCouponRequest      = event.CreateCouponRequest
	UpdateCouponRequest      = event.UpdateCouponRequest
)

// ErrInvalidGuestLookup is returned by GetGuest unless exactly one lookup key is set.
var ErrInvalidGuestLookup = event.ErrInvalidGuestLookup

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	return apierror.As(err)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return apierror.IsNotFound(err)
}

// IsRateLimited reports whether err is a 429 that outlasted every retry.
func IsRateLimited(err error) bool {
	return apierror.IsRateLimited(err)
}

// IsUnauthorized reports whether the API key was rejected.
func IsUnauthorized(err error) bool {
	return apierror.IsUnauthorized(err)
}

// Collect drains a listing into a slice.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	return pagination.Collect(seq)
}

// Take limits a listing to n entries.
func Take[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return pagination.Take(seq, n)
}
