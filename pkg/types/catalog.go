package types

// ProductSnapshot is the read-only per-product view the engine consumes from
// the catalog. The engine never writes any of these fields.
type ProductSnapshot struct {
	ProductID      string       `json:"product_id"`
	BasePriceCents int64        `json:"base_price_cents"`
	Tiers          PricingTiers `json:"tiers,omitempty"`
	MinB2BQuantity int          `json:"min_b2b_quantity"`
	StockAvailable int          `json:"stock_available"`
	RequiresQuote  bool         `json:"requires_quote"`
}
