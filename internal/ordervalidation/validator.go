// Package ordervalidation checks prospective orders against per-product B2B
// constraints before they are priced or persisted. It never mutates state and
// never prices anything itself.
package ordervalidation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/omexsoft/b2b-backend/internal/catalog"
	"github.com/omexsoft/b2b-backend/internal/pricing"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/money"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// Result is the structured verdict for a prospective order. Errors block the
// order; warnings are advisory and leave Valid untouched.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type groupConstraints interface {
	MinOrderValueForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// Validator evaluates requested items against catalog snapshots and, when a
// customer is given, the group minimum order value.
type Validator struct {
	catalog catalog.Reader
	groups  groupConstraints
}

// NewValidator constructs an order validator.
func NewValidator(catalogReader catalog.Reader, groups groupConstraints) (*Validator, error) {
	if catalogReader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if groups == nil {
		return nil, fmt.Errorf("group constraint lookup required")
	}
	return &Validator{catalog: catalogReader, groups: groups}, nil
}

// Validate checks each requested item against its catalog snapshot.
// Quantity below the product minimum is a hard error. Insufficient stock and
// quote-required products only warn, so callers can still show a price next
// to the advisories.
func (v *Validator) Validate(ctx context.Context, customerID *uuid.UUID, items []pricing.RequestedItem) (*Result, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": item.ProductID, "quantity": item.Quantity})
		}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	snapshots, err := v.catalog.Snapshots(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &Result{Valid: true, Errors: []string{}, Warnings: []string{}}
	var basePriceSubtotal int64
	for _, item := range items {
		snap, ok := snapshots[item.ProductID]
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Product %s is not available", item.ProductID))
			continue
		}
		v.validateItem(item, snap, result)
		basePriceSubtotal += money.LineTotal(snap.BasePriceCents, item.Quantity)
	}

	if customerID != nil && *customerID != uuid.Nil {
		minOrderValue, err := v.groups.MinOrderValueForCustomer(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		// Indicative only: the subtotal here uses base prices, not the
		// customer's resolved tier prices.
		if minOrderValue > 0 && basePriceSubtotal < minOrderValue {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Order subtotal is below the group minimum order value of %d", minOrderValue))
		}
	}

	return result, nil
}

func (v *Validator) validateItem(item pricing.RequestedItem, snap types.ProductSnapshot, result *Result) {
	if snap.MinB2BQuantity > 0 && item.Quantity < snap.MinB2BQuantity {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Product %s requires minimum quantity of %d", item.ProductID, snap.MinB2BQuantity))
	}
	if snap.StockAvailable < item.Quantity {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Product %s has only %d units available (requested: %d)",
				item.ProductID, snap.StockAvailable, item.Quantity))
	}
	if snap.RequiresQuote {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Product %s requires a custom quote", item.ProductID))
	}
}
