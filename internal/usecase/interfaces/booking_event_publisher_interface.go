package interfaces

import (
	"context"
	"sterling_partners/internal/domain/entities"
)

// IBookingEventPublisher announces confirmed bookings to downstream consumers
// (CRM sync, calendar invites) through a queue.
type IBookingEventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, b entities.Booking) error
}
