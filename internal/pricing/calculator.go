package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omexsoft/b2b-backend/internal/catalog"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/money"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// RequestedItem is one unpriced cart line submitted by a caller.
type RequestedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Result carries the priced lines and the order total.
type Result struct {
	Items            types.PricedLineItems `json:"items"`
	TotalAmountCents int64                 `json:"total_amount_cents"`
}

type groupDiscounts interface {
	DiscountForCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

// Calculator prices requested items from catalog snapshots, layering the
// customer group discount onto lines no tier already discounted. Tier pricing
// reflects negotiated per-SKU rates, so tier and group discounts never stack.
type Calculator struct {
	catalog   catalog.Reader
	discounts groupDiscounts
}

// NewCalculator constructs a pricing calculator.
func NewCalculator(catalogReader catalog.Reader, discounts groupDiscounts) (*Calculator, error) {
	if catalogReader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if discounts == nil {
		return nil, fmt.Errorf("group discount lookup required")
	}
	return &Calculator{catalog: catalogReader, discounts: discounts}, nil
}

// Calculate prices the requested items. customerID is optional; when present
// the customer's group discount applies to lines with no tier discount.
func (c *Calculator) Calculate(ctx context.Context, customerID *uuid.UUID, items []RequestedItem) (*Result, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	snapshots, err := c.catalog.Snapshots(ctx, ids)
	if err != nil {
		return nil, err
	}

	groupDiscount := decimal.Zero
	if customerID != nil && *customerID != uuid.Nil {
		groupDiscount, err = c.discounts.DiscountForCustomer(ctx, *customerID)
		if err != nil {
			return nil, err
		}
	}

	priced := make(types.PricedLineItems, 0, len(items))
	for _, item := range items {
		snap, ok := snapshots[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}

		resolution, err := ResolvePrice(item.ProductID, item.Quantity, snap.Tiers, snap.BasePriceCents)
		if err != nil {
			return nil, err
		}

		unitPrice := resolution.UnitPriceCents
		discount := resolution.DiscountPercentage
		if discount.IsZero() && groupDiscount.GreaterThan(decimal.Zero) {
			unitPrice = money.ApplyPercentDiscount(unitPrice, groupDiscount)
			discount = groupDiscount
		}

		priced = append(priced, types.PricedLineItem{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPriceCents:     unitPrice,
			DiscountPercentage: discount,
			LineTotalCents:     money.LineTotal(unitPrice, item.Quantity),
		})
	}

	return &Result{Items: priced, TotalAmountCents: priced.TotalCents()}, nil
}
