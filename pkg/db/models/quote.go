package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/omexsoft/b2b-backend/pkg/enums"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

// Quote is a time-limited priced proposal for a B2B customer. Items and
// TotalAmountCents are written together so the total invariant holds on every
// read.
type Quote struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	Items            types.PricedLineItems `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalAmountCents int64                 `gorm:"column:total_amount_cents;not null"`
	ValidUntil       time.Time             `gorm:"column:valid_until;not null"`
	Status           enums.QuoteStatus     `gorm:"column:status;type:text;not null;default:'draft'"`
	Notes            *string               `gorm:"column:notes"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
