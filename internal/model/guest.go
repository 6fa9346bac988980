package model

import "github.com/teemow/eventcal/internal/codec"

// Approval statuses of a guest.
const (
	ApprovalApproved        = "approved"
	ApprovalDeclined        = "declined"
	ApprovalPendingApproval = "pending_approval"
	ApprovalInvited         = "invited"
	ApprovalWaitlist        = "waitlist"
	ApprovalSession         = "session"
)

// EventEntry is one item of a guest listing.
type EventEntry struct {
	APIID string      `json:"api_id"`
	Guest *EventGuest `json:"guest"`
}

// EventGuest is a registered or invited guest.
type EventGuest struct {
	APIID               string               `json:"api_id"`
	ApprovalStatus      string               `json:"approval_status"`
	RegisteredAt        *codec.Time          `json:"registered_at,omitempty"`
	InvitedAt           *codec.Time          `json:"invited_at,omitempty"`
	CheckedInAt         any                  `json:"checked_in_at,omitempty"`
	JoinedAt            any                  `json:"joined_at,omitempty"`
	UserAPIID           string               `json:"user_api_id,omitempty"`
	CreatedAt           codec.Time           `json:"created_at"`
	Name                string               `json:"name,omitempty"`
	Email               string               `json:"email,omitempty"`
	PhoneNumber         string               `json:"phone_number,omitempty"`
	UserName            string               `json:"user_name,omitempty"`
	UserEmail           string               `json:"user_email,omitempty"`
	RegistrationAnswers []RegistrationAnswer `json:"registration_answers,omitempty"`
	CheckInQRCode       string               `json:"check_in_qr_code,omitempty"`
	EventTicket         *EventTicket         `json:"event_ticket,omitempty"`
}

// Approved reports whether the guest's registration was approved.
func (g EventGuest) Approved() bool {
	return g.ApprovalStatus == ApprovalApproved
}

// RegistrationAnswer is a guest's answer to a registration question.
// Answer is a string, a list of strings or a bool depending on
// QuestionType.
type RegistrationAnswer struct {
	Label        string `json:"label"`
	Answer       any    `json:"answer"`
	QuestionID   string `json:"question_id"`
	QuestionType string `json:"question_type"`
}

// EventTicket is the ticket a guest holds.
type EventTicket struct {
	Amount               int    `json:"amount"`
	AmountDiscount       int    `json:"amount_discount"`
	APIID                string `json:"api_id"`
	Currency             any    `json:"currency,omitempty"`
	EventTicketTypeAPIID string `json:"event_ticket_type_api_id,omitempty"`
	Name                 string `json:"name"`
}

// EventGuestItem names a guest in write requests.
type EventGuestItem struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
