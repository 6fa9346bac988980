package model

import (
	"time"

	"github.com/teemow/eventcal/internal/codec"
)

// CalendarEvent is the event summary returned by calendar listings.
type CalendarEvent struct {
	APIID          string     `json:"api_id"`
	CoverURL       string     `json:"cover_url,omitempty"`
	Name           string     `json:"name"`
	SeriesAPIID    any        `json:"series_api_id,omitempty"`
	StartAt        codec.Time `json:"start_at"`
	EndAt          codec.Time `json:"end_at"`
	URL            string     `json:"url,omitempty"`
	SocialImageURL string     `json:"social_image_url,omitempty"`
	Timezone       string     `json:"timezone,omitempty"`
	EventType      string     `json:"event_type,omitempty"`
	Visibility     string     `json:"visibility,omitempty"`
}

// Duration returns the time between start and end, or 0 if either is unset.
func (e CalendarEvent) Duration() time.Duration {
	if e.StartAt.IsZero() || e.EndAt.IsZero() {
		return 0
	}
	return e.EndAt.Sub(e.StartAt.Time)
}

// CalendarEntry is one item of a calendar listing.
type CalendarEntry struct {
	APIID string             `json:"api_id"`
	Event *CalendarEvent     `json:"event"`
	Tags  []CalendarEntryTag `json:"tags,omitempty"`
}

// CalendarEntryTag is a label attached to a calendar entry.
type CalendarEntryTag struct {
	APIID string `json:"api_id"`
	Name  string `json:"name"`
}

// PersonInfo identifies a person to import into a calendar.
type PersonInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
