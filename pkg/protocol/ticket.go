package protocol

import "time"

// Submitter identifies the user who filed a support ticket.
type Submitter struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// TicketReport is a fully rendered support ticket, ready for dispatch to the
// operational sink. Immutable once rendered; not kept in memory after dispatch.
type TicketReport struct {
	Ref           string    `json:"ref"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Submitter     Submitter `json:"submitter"`
	OriginalQuery string    `json:"original_query"`
	Body          string    `json:"body"`
	FiledAt       time.Time `json:"filed_at"`
}
