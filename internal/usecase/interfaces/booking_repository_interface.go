package interfaces

import (
	"context"
	"sterling_partners/internal/domain/entities"
)

// IBookingRepository abstracts DynamoDB persistence for confirmed bookings.
// Wizard sessions are never stored, only the booking a submit produces.

type IBookingRepository interface {
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)
	GetByID(ctx context.Context, id string) (entities.Booking, error)
}
