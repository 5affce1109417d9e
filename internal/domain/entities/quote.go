package entities

import "time"

// QuoteStatus tracks whether a stored quote was used for a booking.
type QuoteStatus string

const (
	QuoteStatusOpen   QuoteStatus = "open"
	QuoteStatusBooked QuoteStatus = "booked"
)

// Quote is a pricing result persisted in DynamoDB so the visitor can book against it.
//
// Storage model (DynamoDB):
//   - PK: id
type Quote struct {
	ID        string           `json:"id"`
	Selection PricingSelection `json:"selection"`
	Result    PricingResult    `json:"result"`
	Status    QuoteStatus      `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
