package purchaseorders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

type stubPOStore struct {
	orders       map[uuid.UUID]*models.PurchaseOrder
	failNextSwap bool
}

func newStubPOStore() *stubPOStore {
	return &stubPOStore{orders: map[uuid.UUID]*models.PurchaseOrder{}}
}

func (s *stubPOStore) WithTx(*gorm.DB) poStore { return s }

func (s *stubPOStore) Create(_ context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	for _, existing := range s.orders {
		if existing.PONumber == po.PONumber {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicatePONumber, "po number already exists")
		}
	}
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	po.CreatedAt = time.Now()
	po.UpdatedAt = po.CreatedAt
	s.orders[po.ID] = po
	return po, nil
}

func (s *stubPOStore) FindByID(_ context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	po, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
	}
	copied := *po
	return &copied, nil
}

func (s *stubPOStore) FindByPONumber(_ context.Context, poNumber string) (*models.PurchaseOrder, error) {
	for _, po := range s.orders {
		if po.PONumber == poNumber {
			copied := *po
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubPOStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to enums.PurchaseOrderStatus, now time.Time) (bool, error) {
	if s.failNextSwap {
		s.failNextSwap = false
		return false, nil
	}
	po, ok := s.orders[id]
	if !ok || po.Status != from {
		return false, nil
	}
	po.Status = to
	po.UpdatedAt = now
	return true, nil
}

func (s *stubPOStore) ListByCustomer(_ context.Context, customerID uuid.UUID, status *enums.PurchaseOrderStatus, _ pagination.Params) ([]models.PurchaseOrder, *pagination.Cursor, error) {
	var out []models.PurchaseOrder
	for _, po := range s.orders {
		if po.CustomerID != customerID {
			continue
		}
		if status != nil && po.Status != *status {
			continue
		}
		out = append(out, *po)
	}
	return out, nil, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubTerms struct {
	terms map[uuid.UUID]string
}

func (s *stubTerms) PaymentTermsForCustomer(_ context.Context, customerID uuid.UUID) (string, error) {
	if s.terms == nil {
		return enums.DefaultPaymentTerms, nil
	}
	if terms, ok := s.terms[customerID]; ok {
		return terms, nil
	}
	return enums.DefaultPaymentTerms, nil
}

func newTestService(t *testing.T) (Service, *stubPOStore, *stubTerms) {
	t.Helper()
	store := newStubPOStore()
	terms := &stubTerms{}
	svc, err := NewService(store, stubTxRunner{}, terms)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store, terms
}

func pricedItem(productID string, qty int, unitPriceCents int64) types.PricedLineItem {
	return types.PricedLineItem{ProductID: productID, Quantity: qty, UnitPriceCents: unitPriceCents}
}

func TestCreatePurchaseOrderDefaultsAndTotal(t *testing.T) {
	svc, _, _ := newTestService(t)

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "  PO-1001  ",
		Items: types.PricedLineItems{
			pricedItem("P1", 10, 900),
			pricedItem("P2", 2, 250),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if po.Status != enums.PurchaseOrderStatusPending {
		t.Fatalf("expected pending, got %s", po.Status)
	}
	if po.PONumber != "PO-1001" {
		t.Fatalf("expected trimmed po number, got %q", po.PONumber)
	}
	if po.TotalAmountCents != 9500 {
		t.Fatalf("expected total 9500, got %d", po.TotalAmountCents)
	}
	if po.PaymentTerms != enums.DefaultPaymentTerms {
		t.Fatalf("expected NET30 default, got %q", po.PaymentTerms)
	}
}

func TestCreatePurchaseOrderUsesGroupPaymentTerms(t *testing.T) {
	svc, _, terms := newTestService(t)
	customerID := uuid.New()
	terms.terms = map[uuid.UUID]string{customerID: "NET60"}

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		CustomerID: customerID,
		PONumber:   "PO-2001",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if po.PaymentTerms != "NET60" {
		t.Fatalf("expected group terms NET60, got %q", po.PaymentTerms)
	}

	// Explicit terms win over the group default.
	po, err = svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		CustomerID:   customerID,
		PONumber:     "PO-2002",
		Items:        types.PricedLineItems{pricedItem("P1", 1, 100)},
		PaymentTerms: "NET15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if po.PaymentTerms != "NET15" {
		t.Fatalf("expected explicit NET15, got %q", po.PaymentTerms)
	}
}

func TestCreatePurchaseOrderDuplicateNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "PO-1",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "PO-1",
		Items:      types.PricedLineItems{pricedItem("P2", 1, 100)},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDuplicatePONumber {
		t.Fatalf("expected duplicate po number error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["existing_id"] != first.ID {
		t.Fatalf("expected existing id in details, got %v", details)
	}

	// First record is unaffected.
	got, err := svc.GetPurchaseOrder(ctx, first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if got.Status != enums.PurchaseOrderStatusPending || got.TotalAmountCents != 100 {
		t.Fatalf("first record changed: %+v", got)
	}

	// Case differs, so no duplicate.
	if _, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "po-1",
		Items:      types.PricedLineItems{pricedItem("P3", 1, 100)},
	}); err != nil {
		t.Fatalf("case-sensitive match must allow po-1: %v", err)
	}
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreatePurchaseOrderInput{
		{PONumber: "PO-1", Items: types.PricedLineItems{pricedItem("P1", 1, 100)}},
		{CustomerID: uuid.New(), PONumber: "   ", Items: types.PricedLineItems{pricedItem("P1", 1, 100)}},
		{CustomerID: uuid.New(), PONumber: "PO-1"},
		{CustomerID: uuid.New(), PONumber: "PO-1", Items: types.PricedLineItems{pricedItem("P1", -1, 100)}},
	}
	for i, input := range cases {
		if _, err := svc.CreatePurchaseOrder(ctx, input); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation code, got %v", i, err)
		}
	}
}

func TestUpdatePurchaseOrderStatusFulfillmentPath(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "PO-PATH",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	path := []enums.PurchaseOrderStatus{
		enums.PurchaseOrderStatusConfirmed,
		enums.PurchaseOrderStatusProcessing,
		enums.PurchaseOrderStatusShipped,
		enums.PurchaseOrderStatusDelivered,
	}
	for _, target := range path {
		updated, err := svc.UpdatePurchaseOrderStatus(ctx, po.ID, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("expected %s, got %s", target, updated.Status)
		}
	}

	// Delivered is terminal, even for cancellation.
	for _, target := range []enums.PurchaseOrderStatus{
		enums.PurchaseOrderStatusCancelled,
		enums.PurchaseOrderStatusPending,
		enums.PurchaseOrderStatusShipped,
	} {
		_, err := svc.UpdatePurchaseOrderStatus(ctx, po.ID, target)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("delivered→%s: expected state conflict, got %v", target, err)
		}
	}
}

func TestUpdatePurchaseOrderStatusCancelAndSkips(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "PO-CANCEL",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Skipping straight to shipped is illegal from pending.
	_, err = svc.UpdatePurchaseOrderStatus(ctx, po.ID, enums.PurchaseOrderStatusShipped)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for pending→shipped, got %v", err)
	}

	cancelled, err := svc.UpdatePurchaseOrderStatus(ctx, po.ID, enums.PurchaseOrderStatusCancelled)
	if err != nil {
		t.Fatalf("pending→cancelled: %v", err)
	}
	if cancelled.Status != enums.PurchaseOrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	_, err = svc.UpdatePurchaseOrderStatus(ctx, po.ID, enums.PurchaseOrderStatusConfirmed)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after cancellation, got %v", err)
	}

	_, err = svc.UpdatePurchaseOrderStatus(ctx, po.ID, enums.PurchaseOrderStatus("bogus"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bogus status, got %v", err)
	}

	_, err = svc.UpdatePurchaseOrderStatus(ctx, uuid.New(), enums.PurchaseOrderStatusConfirmed)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePurchaseOrderStatusConcurrentLoserGetsConflict(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: uuid.New(),
		PONumber:   "PO-RACE",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.failNextSwap = true
	_, err = svc.UpdatePurchaseOrderStatus(ctx, po.ID, enums.PurchaseOrderStatusConfirmed)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for concurrent loser, got %v", err)
	}
}

func TestListCustomerPurchaseOrdersScopes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	mine := uuid.New()
	theirs := uuid.New()

	if _, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: mine,
		PONumber:   "PO-MINE",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	}); err != nil {
		t.Fatalf("create mine: %v", err)
	}
	if _, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		CustomerID: theirs,
		PONumber:   "PO-THEIRS",
		Items:      types.PricedLineItems{pricedItem("P1", 1, 100)},
	}); err != nil {
		t.Fatalf("create theirs: %v", err)
	}

	list, err := svc.ListCustomerPurchaseOrders(ctx, mine, nil, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.PurchaseOrders) != 1 || list.PurchaseOrders[0].PONumber != "PO-MINE" {
		t.Fatalf("expected only this customer's orders, got %+v", list.PurchaseOrders)
	}
}
