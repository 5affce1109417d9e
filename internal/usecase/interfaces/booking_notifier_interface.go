package interfaces

import (
	"context"
	"sterling_partners/internal/domain/entities"
)

// IBookingNotifier sends the visitor a confirmation of their appointment (e.g. Resend).
type IBookingNotifier interface {
	SendBookingConfirmation(ctx context.Context, b entities.Booking) error
}
