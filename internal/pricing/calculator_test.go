package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

type stubCatalog struct {
	snapshots map[string]types.ProductSnapshot
}

func (s *stubCatalog) Snapshot(_ context.Context, productID string) (*types.ProductSnapshot, error) {
	snap, ok := s.snapshots[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &snap, nil
}

func (s *stubCatalog) Snapshots(_ context.Context, productIDs []string) (map[string]types.ProductSnapshot, error) {
	out := make(map[string]types.ProductSnapshot, len(productIDs))
	for _, id := range productIDs {
		if snap, ok := s.snapshots[id]; ok {
			out[id] = snap
		}
	}
	return out, nil
}

type stubDiscounts struct {
	discount decimal.Decimal
	err      error
}

func (s *stubDiscounts) DiscountForCustomer(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return s.discount, s.err
}

func newTestCalculator(t *testing.T, snapshots map[string]types.ProductSnapshot, discount decimal.Decimal) *Calculator {
	t.Helper()
	calc, err := NewCalculator(&stubCatalog{snapshots: snapshots}, &stubDiscounts{discount: discount})
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return calc
}

func TestCalculateTierPriceAndTotal(t *testing.T) {
	calc := newTestCalculator(t, map[string]types.ProductSnapshot{
		"P1": {
			ProductID:      "P1",
			BasePriceCents: 1000,
			Tiers: types.PricingTiers{
				{MinQty: 10, UnitPriceCents: 900, DiscountPercentage: decimal.NewFromInt(10)},
			},
		},
		"P2": {ProductID: "P2", BasePriceCents: 250},
	}, decimal.Zero)

	result, err := calc.Calculate(context.Background(), nil, []RequestedItem{
		{ProductID: "P1", Quantity: 10},
		{ProductID: "P2", Quantity: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 priced items, got %d", len(result.Items))
	}
	if result.Items[0].UnitPriceCents != 900 || result.Items[0].LineTotalCents != 9000 {
		t.Fatalf("unexpected P1 line: %+v", result.Items[0])
	}
	if result.Items[1].UnitPriceCents != 250 || result.Items[1].LineTotalCents != 1000 {
		t.Fatalf("unexpected P2 line: %+v", result.Items[1])
	}
	if result.TotalAmountCents != 10000 {
		t.Fatalf("expected total 10000, got %d", result.TotalAmountCents)
	}
}

func TestCalculateGroupDiscountNotStacked(t *testing.T) {
	snapshots := map[string]types.ProductSnapshot{
		"TIERED": {
			ProductID:      "TIERED",
			BasePriceCents: 1000,
			Tiers: types.PricingTiers{
				{MinQty: 1, UnitPriceCents: 900, DiscountPercentage: decimal.NewFromInt(10)},
			},
		},
		"PLAIN": {ProductID: "PLAIN", BasePriceCents: 1000},
	}
	calc := newTestCalculator(t, snapshots, decimal.NewFromInt(5))
	customerID := uuid.New()

	result, err := calc.Calculate(context.Background(), &customerID, []RequestedItem{
		{ProductID: "TIERED", Quantity: 2},
		{ProductID: "PLAIN", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Tier-discounted line keeps its negotiated price untouched.
	if result.Items[0].UnitPriceCents != 900 {
		t.Fatalf("expected tier price 900 without group discount, got %d", result.Items[0].UnitPriceCents)
	}
	if !result.Items[0].DiscountPercentage.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected tier discount 10%%, got %s", result.Items[0].DiscountPercentage)
	}

	// Undiscounted line picks up the 5% group discount.
	if result.Items[1].UnitPriceCents != 950 {
		t.Fatalf("expected group-discounted 950, got %d", result.Items[1].UnitPriceCents)
	}
	if !result.Items[1].DiscountPercentage.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected group discount 5%%, got %s", result.Items[1].DiscountPercentage)
	}
	if result.TotalAmountCents != 900*2+950*2 {
		t.Fatalf("unexpected total %d", result.TotalAmountCents)
	}
}

func TestCalculateNoCustomerSkipsGroupDiscount(t *testing.T) {
	calc := newTestCalculator(t, map[string]types.ProductSnapshot{
		"PLAIN": {ProductID: "PLAIN", BasePriceCents: 1000},
	}, decimal.NewFromInt(25))

	result, err := calc.Calculate(context.Background(), nil, []RequestedItem{
		{ProductID: "PLAIN", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Items[0].UnitPriceCents != 1000 {
		t.Fatalf("expected undiscounted price without customer, got %d", result.Items[0].UnitPriceCents)
	}
}

func TestCalculateTotalIdempotent(t *testing.T) {
	calc := newTestCalculator(t, map[string]types.ProductSnapshot{
		"P1": {ProductID: "P1", BasePriceCents: 333},
	}, decimal.NewFromFloat(7.5))
	customerID := uuid.New()
	items := []RequestedItem{{ProductID: "P1", Quantity: 3}}

	first, err := calc.Calculate(context.Background(), &customerID, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := calc.Calculate(context.Background(), &customerID, items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.TotalAmountCents != first.TotalAmountCents {
			t.Fatalf("total drifted on recompute: %d vs %d", again.TotalAmountCents, first.TotalAmountCents)
		}
	}
	if first.TotalAmountCents != first.Items.TotalCents() {
		t.Fatalf("total %d does not match line sum %d", first.TotalAmountCents, first.Items.TotalCents())
	}
}

func TestCalculateRejectsUnknownProductAndEmptyItems(t *testing.T) {
	calc := newTestCalculator(t, map[string]types.ProductSnapshot{}, decimal.Zero)

	_, err := calc.Calculate(context.Background(), nil, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}

	_, err = calc.Calculate(context.Background(), nil, []RequestedItem{{ProductID: "GHOST", Quantity: 1}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown product, got %v", err)
	}
}
