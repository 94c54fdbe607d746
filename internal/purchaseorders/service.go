package purchaseorders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/money"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// Service owns the purchase order lifecycle: creation with po_number
// uniqueness, the fulfillment state machine and customer-scoped reads.
type Service interface {
	CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (*models.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, target enums.PurchaseOrderStatus) (*models.PurchaseOrder, error)
	ListCustomerPurchaseOrders(ctx context.Context, customerID uuid.UUID, status *enums.PurchaseOrderStatus, params pagination.Params) (*PurchaseOrderList, error)
}

// CreatePurchaseOrderInput holds the validated payload to create a PO. Items
// are already priced.
type CreatePurchaseOrderInput struct {
	CustomerID   uuid.UUID
	PONumber     string
	Items        types.PricedLineItems
	PaymentTerms string
	DeliveryDate *time.Time
	Notes        *string
}

// PurchaseOrderList wraps one page of purchase orders plus the next cursor.
type PurchaseOrderList struct {
	PurchaseOrders []models.PurchaseOrder `json:"purchase_orders"`
	NextCursor     string                 `json:"next_cursor,omitempty"`
}

type poStore interface {
	WithTx(tx *gorm.DB) poStore
	Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	FindByPONumber(ctx context.Context, poNumber string) (*models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.PurchaseOrderStatus, now time.Time) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status *enums.PurchaseOrderStatus, params pagination.Params) ([]models.PurchaseOrder, *pagination.Cursor, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentTermsSource interface {
	PaymentTermsForCustomer(ctx context.Context, customerID uuid.UUID) (string, error)
}

type service struct {
	repo  poStore
	tx    txRunner
	terms paymentTermsSource
	now   func() time.Time
}

// NewService constructs a purchase order service.
func NewService(repo poStore, tx txRunner, terms paymentTermsSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if terms == nil {
		return nil, fmt.Errorf("payment terms source required")
	}
	return &service{repo: repo, tx: tx, terms: terms, now: time.Now}, nil
}

func (s *service) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	poNumber := strings.TrimSpace(input.PONumber)
	if poNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "po number is required")
	}
	items, err := normalizeItems(input.Items)
	if err != nil {
		return nil, err
	}

	terms := strings.TrimSpace(input.PaymentTerms)
	if terms == "" {
		terms, err = s.terms.PaymentTermsForCustomer(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		if terms == "" {
			terms = enums.DefaultPaymentTerms
		}
	}

	po := &models.PurchaseOrder{
		CustomerID:       input.CustomerID,
		PONumber:         poNumber,
		Items:            items,
		TotalAmountCents: items.TotalCents(),
		PaymentTerms:     terms,
		DeliveryDate:     input.DeliveryDate,
		Status:           enums.PurchaseOrderStatusPending,
		Notes:            input.Notes,
	}

	// The existence check and insert share a transaction; the unique index
	// still backstops a raced insert from another connection.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByPONumber(ctx, poNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeDuplicatePONumber, "po number already exists").
				WithDetails(map[string]any{
					"po_number":   poNumber,
					"existing_id": existing.ID,
				})
		}
		created, err := repo.Create(ctx, po)
		if err != nil {
			return err
		}
		po = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
	}
	return po, nil
}

func (s *service) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, target enums.PurchaseOrderStatus) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id is required")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown purchase order status").
			WithDetails(map[string]any{"requested_status": target})
	}

	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase order status transition not allowed").
			WithDetails(map[string]any{
				"purchase_order_id": po.ID,
				"current_status":    po.Status,
				"requested_status":  target,
			})
	}

	now := s.now()
	moved, err := s.repo.UpdateStatus(ctx, po.ID, po.Status, target, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		current, err := s.repo.FindByID(ctx, po.ID)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "purchase order was updated concurrently").
			WithDetails(map[string]any{
				"purchase_order_id": po.ID,
				"current_status":    current.Status,
				"requested_status":  target,
			})
	}

	po.Status = target
	po.UpdatedAt = now
	return po, nil
}

func (s *service) ListCustomerPurchaseOrders(ctx context.Context, customerID uuid.UUID, status *enums.PurchaseOrderStatus, params pagination.Params) (*PurchaseOrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown purchase order status").
			WithDetails(map[string]any{"status": *status})
	}

	orders, next, err := s.repo.ListByCustomer(ctx, customerID, status, params)
	if err != nil {
		return nil, err
	}
	list := &PurchaseOrderList{PurchaseOrders: orders}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
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
