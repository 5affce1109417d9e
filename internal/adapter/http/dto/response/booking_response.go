package response

import (
	"time"

	"sterling_partners/internal/domain/entities"
)

type ContactResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

func fromContact(c entities.Contact) ContactResponse {
	return ContactResponse{Name: c.Name, Email: c.Email, Phone: c.Phone, Company: c.Company}
}

// BookingSessionResponse mirrors the wizard. Step is the step name and
// StepIndex its position (0 package, 1 schedule, 2 contact, 3 submitted, 4 failed).
type BookingSessionResponse struct {
	SessionID      string          `json:"session_id"`
	Step           string          `json:"step"`
	StepIndex      int             `json:"step_index"`
	Package        string          `json:"package"`
	Date           string          `json:"date,omitempty"`
	Time           string          `json:"time,omitempty"`
	Contact        ContactResponse `json:"contact"`
	QuoteID        string          `json:"quote_id,omitempty"`
	CanAdvance     bool            `json:"can_advance"`
	CanSubmit      bool            `json:"can_submit"`
	Reference      string          `json:"reference,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	AvailableDates []string        `json:"available_dates"`
	TimeSlots      []string        `json:"time_slots"`
	OpenedAt       time.Time       `json:"opened_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func FromBookingSession(s entities.BookingSession) BookingSessionResponse {
	dates := s.AvailableDates
	if dates == nil {
		dates = []string{}
	}
	slots := s.TimeSlots
	if slots == nil {
		slots = []string{}
	}
	return BookingSessionResponse{
		SessionID:      s.ID,
		Step:           s.Draft.Step.String(),
		StepIndex:      int(s.Draft.Step),
		Package:        string(s.Draft.Package),
		Date:           s.Draft.Date,
		Time:           s.Draft.Time,
		Contact:        fromContact(s.Draft.Contact),
		QuoteID:        s.Draft.QuoteID,
		CanAdvance:     s.CanAdvance,
		CanSubmit:      s.CanSubmit,
		Reference:      s.Reference,
		FailureReason:  s.FailureReason,
		AvailableDates: dates,
		TimeSlots:      slots,
		OpenedAt:       s.OpenedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type BookingResponse struct {
	ID        string          `json:"id"`
	BookingID string          `json:"booking_id"`
	SessionID string          `json:"session_id"`
	QuoteID   string          `json:"quote_id,omitempty"`
	Package   string          `json:"package"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Contact   ContactResponse `json:"contact"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func FromBooking(b entities.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		BookingID: b.ID,
		SessionID: b.SessionID,
		QuoteID:   b.QuoteID,
		Package:   string(b.Package),
		Date:      b.Date,
		Time:      b.Time,
		Contact:   fromContact(b.Contact),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

type AvailabilityResponse struct {
	Dates     []string `json:"dates"`
	TimeSlots []string `json:"time_slots"`
	Timezone  string   `json:"timezone"`
}

func FromAvailability(a entities.Availability) AvailabilityResponse {
	dates := a.Dates
	if dates == nil {
		dates = []string{}
	}
	return AvailabilityResponse{Dates: dates, TimeSlots: a.TimeSlots, Timezone: a.Timezone}
}
