package request

import (
	"strings"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/domain/scheduler"
	"sterling_partners/internal/usecase"
)

type OpenBookingRequest struct {
	Package string `json:"package"`
	QuoteID string `json:"quote_id"`
}

func (r OpenBookingRequest) ToParams() usecase.OpenBookingParams {
	return usecase.OpenBookingParams{
		Package: entities.PackageChoice(strings.TrimSpace(r.Package)),
		QuoteID: strings.TrimSpace(r.QuoteID),
	}
}

type ContactRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// UpdateBookingRequest is a partial update; absent fields keep their value.
type UpdateBookingRequest struct {
	Package *string         `json:"package"`
	Date    *string         `json:"date"`
	Time    *string         `json:"time"`
	Contact *ContactRequest `json:"contact"`
}

func (r UpdateBookingRequest) ToUpdate() usecase.BookingUpdate {
	var upd usecase.BookingUpdate
	if r.Package != nil {
		p := entities.PackageChoice(strings.TrimSpace(*r.Package))
		upd.Package = &p
	}
	upd.Date = trimmed(r.Date)
	upd.Time = trimmed(r.Time)
	if r.Contact != nil {
		upd.Contact = scheduler.ContactUpdate{
			Name:    r.Contact.Name,
			Email:   r.Contact.Email,
			Phone:   r.Contact.Phone,
			Company: r.Contact.Company,
		}
	}
	return upd
}

// IsEmpty reports whether the request carries no field at all.
func (r UpdateBookingRequest) IsEmpty() bool {
	if r.Package != nil || r.Date != nil || r.Time != nil {
		return false
	}
	c := r.Contact
	return c == nil || (c.Name == nil && c.Email == nil && c.Phone == nil && c.Company == nil)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
