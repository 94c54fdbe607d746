package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/omexsoft/b2b-backend/pkg/enums"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// PurchaseOrder is a customer-issued commitment to buy, tracked through
// fulfillment. PONumber is globally unique (uq_purchase_orders_po_number).
type PurchaseOrder struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       uuid.UUID                 `gorm:"column:customer_id;type:uuid;not null"`
	PONumber         string                    `gorm:"column:po_number;not null;uniqueIndex:uq_purchase_orders_po_number"`
	Items            types.PricedLineItems     `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalAmountCents int64                     `gorm:"column:total_amount_cents;not null"`
	PaymentTerms     string                    `gorm:"column:payment_terms;not null;default:'NET30'"`
	DeliveryDate     *time.Time                `gorm:"column:delivery_date"`
	Status           enums.PurchaseOrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes            *string                   `gorm:"column:notes"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
