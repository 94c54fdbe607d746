package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
)

// Repository persists quotes via GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the quote.
func (r *Repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}
	return quote, nil
}

// FindByID loads a quote.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.WithContext(ctx).First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found").
				WithDetails(map[string]any{"quote_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return &quote, nil
}

// UpdateStatus performs a compare-and-swap status change. It reports whether
// a row actually moved; a false return means the quote is gone or its status
// changed underneath the caller.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.QuoteStatus, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]any{"status": to, "updated_at": now})
	if result.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update quote status")
	}
	return result.RowsAffected > 0, nil
}

// ExpireDue flips every overdue non-terminal quote to expired. Scoped to one
// customer when customerID is non-nil.
func (r *Repository) ExpireDue(ctx context.Context, customerID *uuid.UUID, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("status IN ?", []string{enums.QuoteStatusDraft.String(), enums.QuoteStatusSent.String()}).
		Where("valid_until < ?", now)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	result := query.UpdateColumns(map[string]any{"status": enums.QuoteStatusExpired, "updated_at": now})
	if result.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "expire quotes")
	}
	return result.RowsAffected, nil
}

// ListByCustomer returns one customer's quotes newest-first with an optional
// status filter and cursor pagination.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, status *enums.QuoteStatus, params pagination.Params) ([]models.Quote, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Quote{}).Where("customer_id = ?", customerID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var quotes []models.Quote
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&quotes).Error; err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}

	if len(quotes) > normalized {
		next := quotes[normalized]
		quotes = quotes[:normalized]
		return quotes, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return quotes, nil, nil
}
