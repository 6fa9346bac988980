package model

import "github.com/teemow/eventcal/internal/codec"

// Event is the full event record.
type Event struct {
	APIID          string     `json:"api_id"`
	CreatedAt      codec.Time `json:"created_at"`
	CoverURL       string     `json:"cover_url,omitempty"`
	Name           string     `json:"name"`
	SeriesAPIID    any        `json:"series_api_id,omitempty"`
	Description    string     `json:"description,omitempty"`
	DescriptionMD  string     `json:"description_md,omitempty"`
	StartAt        codec.Time `json:"start_at"`
	EndAt          codec.Time `json:"end_at"`
	GeoAddressJSON any        `json:"geo_address_json,omitempty"`
	GeoLatitude    any        `json:"geo_latitude,omitempty"`
	GeoLongitude   any        `json:"geo_longitude,omitempty"`
	URL            string     `json:"url,omitempty"`
	SocialImageURL string     `json:"social_image_url,omitempty"`
	Timezone       string     `json:"timezone,omitempty"`
	EventType      string     `json:"event_type,omitempty"`
	Visibility     string     `json:"visibility,omitempty"`
	MeetingURL     any        `json:"meeting_url,omitempty"`
	ZoomMeetingURL any        `json:"zoom_meeting_url,omitempty"`
}

// Summary returns the calendar view of e.
func (e Event) Summary() CalendarEvent {
	return CalendarEvent{
		APIID:          e.APIID,
		CoverURL:       e.CoverURL,
		Name:           e.Name,
		SeriesAPIID:    e.SeriesAPIID,
		StartAt:        e.StartAt,
		EndAt:          e.EndAt,
		URL:            e.URL,
		SocialImageURL: e.SocialImageURL,
		Timezone:       e.Timezone,
		EventType:      e.EventType,
		Visibility:     e.Visibility,
	}
}

// EventHost is a host of an event.
type EventHost struct {
	APIID     string `json:"api_id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GeoLocation is a place given when creating an event.
type GeoLocation struct {
	Type        string `json:"type,omitempty"`
	PlaceID     string `json:"place_id,omitempty"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

// EventContact is the typed address block sent when updating an event.
type EventContact struct {
	Type  string `json:"type,omitempty"`
	Email string `json:"email,omitempty"`
}

// Visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityMembers = "members-only"
	VisibilityPrivate = "private"
)
