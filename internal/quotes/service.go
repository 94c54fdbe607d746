package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/money"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// DefaultValidity is the quote lifetime applied when valid_until is omitted.
const DefaultValidity = 30 * 24 * time.Hour

// Service owns the quote lifecycle: creation, lazy expiry, the status state
// machine and customer-scoped reads.
type Service interface {
	CreateQuote(ctx context.Context, input CreateQuoteInput) (*models.Quote, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	UpdateQuoteStatus(ctx context.Context, id uuid.UUID, target enums.QuoteStatus) (*models.Quote, error)
	ListCustomerQuotes(ctx context.Context, customerID uuid.UUID, status *enums.QuoteStatus, params pagination.Params) (*QuoteList, error)
}

// CreateQuoteInput holds the validated payload to create a quote. Items are
// already priced; callers run the calculator first, then submit.
type CreateQuoteInput struct {
	CustomerID uuid.UUID
	Items      types.PricedLineItems
	ValidUntil *time.Time
	Notes      *string
}

// QuoteList wraps one page of quotes plus the next cursor.
type QuoteList struct {
	Quotes     []models.Quote `json:"quotes"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type quoteStore interface {
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.QuoteStatus, now time.Time) (bool, error)
	ExpireDue(ctx context.Context, customerID *uuid.UUID, now time.Time) (int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status *enums.QuoteStatus, params pagination.Params) ([]models.Quote, *pagination.Cursor, error)
}

type service struct {
	repo     quoteStore
	validity time.Duration
	now      func() time.Time
}

// NewService constructs a quote service. A non-positive validity falls back
// to DefaultValidity.
func NewService(repo quoteStore, validity time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &service{repo: repo, validity: validity, now: time.Now}, nil
}

func (s *service) CreateQuote(ctx context.Context, input CreateQuoteInput) (*models.Quote, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	items, err := normalizeItems(input.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	validUntil := now.Add(s.validity)
	if input.ValidUntil != nil {
		validUntil = *input.ValidUntil
	}

	return s.repo.Create(ctx, &models.Quote{
		CustomerID:       input.CustomerID,
		Items:            items,
		TotalAmountCents: items.TotalCents(),
		ValidUntil:       validUntil,
		Status:           enums.QuoteStatusDraft,
		Notes:            input.Notes,
	})
}

func (s *service) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyLazyExpiry(ctx, quote)
}

func (s *service) UpdateQuoteStatus(ctx context.Context, id uuid.UUID, target enums.QuoteStatus) (*models.Quote, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown quote status").
			WithDetails(map[string]any{"requested_status": target})
	}

	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	quote, err = s.applyLazyExpiry(ctx, quote)
	if err != nil {
		return nil, err
	}

	if !quote.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote status transition not allowed").
			WithDetails(map[string]any{
				"quote_id":         quote.ID,
				"current_status":   quote.Status,
				"requested_status": target,
			})
	}

	now := s.now()
	moved, err := s.repo.UpdateStatus(ctx, quote.ID, quote.Status, target, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Lost the race: someone else transitioned this quote first.
		current, err := s.repo.FindByID(ctx, quote.ID)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "quote was updated concurrently").
			WithDetails(map[string]any{
				"quote_id":         quote.ID,
				"current_status":   current.Status,
				"requested_status": target,
			})
	}

	quote.Status = target
	quote.UpdatedAt = now
	return quote, nil
}

func (s *service) ListCustomerQuotes(ctx context.Context, customerID uuid.UUID, status *enums.QuoteStatus, params pagination.Params) (*QuoteList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown quote status").
			WithDetails(map[string]any{"status": *status})
	}

	// Settle overdue quotes before the read so the page reflects expiry.
	if _, err := s.repo.ExpireDue(ctx, &customerID, s.now()); err != nil {
		return nil, err
	}

	quotes, next, err := s.repo.ListByCustomer(ctx, customerID, status, params)
	if err != nil {
		return nil, err
	}
	list := &QuoteList{Quotes: quotes}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

// applyLazyExpiry flips an overdue non-terminal quote to expired. Losing the
// flip race is fine; the re-read reflects whoever won.
func (s *service) applyLazyExpiry(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	now := s.now()
	if quote.Status.IsTerminal() || !now.After(quote.ValidUntil) {
		return quote, nil
	}
	moved, err := s.repo.UpdateStatus(ctx, quote.ID, quote.Status, enums.QuoteStatusExpired, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return s.repo.FindByID(ctx, quote.ID)
	}
	quote.Status = enums.QuoteStatusExpired
	quote.UpdatedAt = now
	return quote, nil
}

func normalizeItems(items types.PricedLineItems) (types.PricedLineItems, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	normalized := make(types.PricedLineItems, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": item.ProductID, "quantity": item.Quantity})
		}
		if item.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		item.LineTotalCents = money.LineTotal(item.UnitPriceCents, item.Quantity)
		normalized = append(normalized, item)
	}
	return normalized, nil
}
