package purchaseorders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omexsoft/b2b-backend/pkg/db"
	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
)

// Repository persists purchase orders via GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) poStore {
	return &Repository{db: tx}
}

// Create inserts the purchase order. The unique index on po_number is the
// authority on duplicates; a raced insert that trips it comes back as
// CodeDuplicatePONumber just like the in-transaction check.
func (r *Repository) Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		if db.IsUniqueViolation(err, "uq_purchase_orders_po_number") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicatePONumber, "po number already exists").
				WithDetails(map[string]any{"po_number": po.PONumber})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
	}
	return po, nil
}

// FindByID loads a purchase order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.db.WithContext(ctx).First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found").
				WithDetails(map[string]any{"purchase_order_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	return &po, nil
}

// FindByPONumber returns the PO with the exact (case-sensitive) number, or
// nil when none exists.
func (r *Repository) FindByPONumber(ctx context.Context, poNumber string) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).First(&po, "po_number = ?", poNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order by number")
	}
	return &po, nil
}

// UpdateStatus performs a compare-and-swap status change and reports whether
// a row moved.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.PurchaseOrderStatus, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]any{"status": to, "updated_at": now})
	if result.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "update purchase order status")
	}
	return result.RowsAffected > 0, nil
}

// ListByCustomer returns one customer's purchase orders newest-first with an
// optional status filter and cursor pagination.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, status *enums.PurchaseOrderStatus, params pagination.Params) ([]models.PurchaseOrder, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("customer_id = ?", customerID)
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

	var orders []models.PurchaseOrder
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}

	if len(orders) > normalized {
		next := orders[normalized]
		orders = orders[:normalized]
		return orders, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return orders, nil, nil
}
