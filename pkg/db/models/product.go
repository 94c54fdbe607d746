package models

import (
	"time"

	"github.com/omexsoft/b2b-backend/pkg/types"
)

// Product is the engine's read model of the external catalog: base price,
// tier table, stock counters and B2B constraints per product. The catalog
// service owns these rows; the engine only reads them.
type Product struct {
	ID             string             `gorm:"column:id;primaryKey"`
	BasePriceCents int64              `gorm:"column:base_price_cents;not null"`
	PricingTiers   types.PricingTiers `gorm:"column:b2b_pricing_tiers;type:jsonb;serializer:json"`
	MinB2BQuantity int                `gorm:"column:b2b_min_quantity;not null;default:1"`
	LeadTimeDays   *int               `gorm:"column:b2b_lead_time_days"`
	StockLevel     int                `gorm:"column:stock_level;not null;default:0"`
	StockReserved  int                `gorm:"column:stock_reserved;not null;default:0"`
	StockAvailable int                `gorm:"column:stock_available;not null;default:0"`
	RequiresQuote  bool               `gorm:"column:requires_quote;not null;default:false"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// Snapshot projects the product into the read-only view the engine consumes.
func (p Product) Snapshot() types.ProductSnapshot {
	return types.ProductSnapshot{
		ProductID:      p.ID,
		BasePriceCents: p.BasePriceCents,
		Tiers:          p.PricingTiers,
		MinB2BQuantity: p.MinB2BQuantity,
		StockAvailable: p.StockAvailable,
		RequiresQuote:  p.RequiresQuote,
	}
}
