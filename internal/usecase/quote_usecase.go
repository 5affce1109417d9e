package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/domain/pricing"
	"sterling_partners/internal/logger"
	"sterling_partners/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrInvalidQuoteID = errors.New("invalid quote id")
	ErrQuoteRepoUnset = errors.New("quote repository not configured")
)

// IQuoteUseCase exposes the pricing calculator.
//
//   - GET  /pricing/options   => Catalogue()
//   - POST /pricing/estimate  => Estimate()
//   - POST /quotes            => CreateQuote()
//   - GET  /quotes/{id}       => GetByID()

type IQuoteUseCase interface {
	Catalogue() pricing.Catalogue
	Estimate(ctx context.Context, sel entities.PricingSelection) (entities.PricingResult, error)
	CreateQuote(ctx context.Context, sel entities.PricingSelection) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
}

type QuoteUseCase struct {
	repo interfaces.IQuoteRepository
	now  func() time.Time
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, now: time.Now}
}

func (u *QuoteUseCase) Catalogue() pricing.Catalogue {
	return pricing.NewCatalogue()
}

// Estimate validates and normalises the selection, then prices it. Nothing is stored.
func (u *QuoteUseCase) Estimate(_ context.Context, sel entities.PricingSelection) (entities.PricingResult, error) {
	_, res, err := u.price(sel)
	return res, err
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, sel entities.PricingSelection) (entities.Quote, error) {
	if u.repo == nil {
		return entities.Quote{}, ErrQuoteRepoUnset
	}
	sel, res, err := u.price(sel)
	if err != nil {
		return entities.Quote{}, err
	}

	now := u.now().UTC()
	q := entities.Quote{
		ID:        uuid.NewString(),
		Selection: sel,
		Result:    res,
		Status:    entities.QuoteStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, q)
	if err != nil {
		logger.Error("[quote][usecase] create failed", zap.String("quote_id", q.ID), zap.Error(err))
		return entities.Quote{}, err
	}
	logger.Info("[quote][usecase] quote created",
		zap.String("quote_id", created.ID),
		zap.String("entity_type", string(sel.EntityType)),
		zap.Int("total", res.Total),
	)
	return created, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	if u.repo == nil {
		return entities.Quote{}, ErrQuoteRepoUnset
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) price(sel entities.PricingSelection) (entities.PricingSelection, entities.PricingResult, error) {
	if err := pricing.Validate(sel); err != nil {
		return sel, entities.PricingResult{}, err
	}
	sel = pricing.Normalize(sel)
	return sel, pricing.ComputePrice(sel), nil
}
