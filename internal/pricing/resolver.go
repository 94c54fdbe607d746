package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// Resolution is the outcome of a tier lookup for one product and quantity.
type Resolution struct {
	UnitPriceCents     int64
	DiscountPercentage decimal.Decimal
	TierMatched        bool
}

// ResolvePrice scans the product's ordered tier list and returns the first
// tier covering the requested quantity. When no tier covers it the base
// price applies with zero discount; pricing never fails for lack of a tier.
// If misconfigured tiers overlap, the earliest tier in the list wins.
func ResolvePrice(productID string, quantity int, tiers types.PricingTiers, basePriceCents int64) (Resolution, error) {
	if strings.TrimSpace(productID) == "" {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"product_id": productID, "quantity": quantity})
	}

	for _, tier := range tiers {
		if tier.Covers(quantity) {
			return Resolution{
				UnitPriceCents:     tier.UnitPriceCents,
				DiscountPercentage: tier.DiscountPercentage,
				TierMatched:        true,
			}, nil
		}
	}
	return Resolution{UnitPriceCents: basePriceCents}, nil
}
