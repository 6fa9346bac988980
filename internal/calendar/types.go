package calendar

import (
	"time"

	"github.com/teemow/eventcal/internal/model"
)

// ListEventsOptions filters a calendar listing. Nil bounds are not sent.
type ListEventsOptions struct {
	// Before limits results to events starting before this instant
	Before *time.Time
	// After limits results to events starting at or after this instant
	After *time.Time
}

// ImportPeopleRequest adds people to the calendar, optionally tagging them
type ImportPeopleRequest struct {
	Infos     []model.PersonInfo `json:"infos"`
	TagAPIIDs []string           `json:"tag_api_ids,omitempty"`
}
