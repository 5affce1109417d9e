package interfaces

import (
	"context"
	"sterling_partners/internal/domain/entities"
)

// IQuoteRepository abstracts DynamoDB persistence for Quote.
//
// The service must be able to:
//   - store a computed quote so the visitor can come back to it
//   - flip a quote to booked once an appointment is confirmed against it
//
// GetByID and UpdateStatusByID return a zero Quote (empty ID) when nothing matches.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	UpdateStatusByID(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error)
}
