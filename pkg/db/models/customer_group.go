package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerGroup is a named B2B customer segment carrying discount and
// payment-term defaults. Name is unique (uq_customer_groups_name).
type CustomerGroup struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string          `gorm:"column:name;not null;uniqueIndex:uq_customer_groups_name"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0"`
	MinOrderValueCents int64           `gorm:"column:min_order_value_cents;not null;default:0"`
	PaymentTerms       string          `gorm:"column:payment_terms;not null;default:'NET30'"`
	CatalogScope       []string        `gorm:"column:catalog_scope;type:jsonb;serializer:json"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
