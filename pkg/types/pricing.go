package types

import "github.com/shopspring/decimal"

// PricingTier maps a quantity range to a unit price for one product. MaxQty
// nil means the tier is open-ended.
type PricingTier struct {
	MinQty             int             `json:"qty_min"`
	MaxQty             *int            `json:"qty_max,omitempty"`
	UnitPriceCents     int64           `json:"unit_price_cents"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// Covers reports whether the tier applies to the requested quantity.
func (t PricingTier) Covers(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	return t.MaxQty == nil || qty <= *t.MaxQty
}

// PricingTiers is the ordered tier list stored on a product. Order is
// significant: the first covering tier wins.
type PricingTiers []PricingTier

// PricedLineItem is the snapshot of one priced cart line. LineTotalCents is
// always UnitPriceCents * Quantity.
type PricedLineItem struct {
	ProductID          string          `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPriceCents     int64           `json:"unit_price_cents"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	LineTotalCents     int64           `json:"line_total_cents"`
}

// PricedLineItems is the embedded items collection persisted on quotes and
// purchase orders.
type PricedLineItems []PricedLineItem

// TotalCents sums the line totals.
func (items PricedLineItems) TotalCents() int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotalCents
	}
	return total
}
