package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the engine's read model of the external customer directory.
// Only the group membership is consulted; the directory owns everything else.
type Customer struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	GroupID   *uuid.UUID `gorm:"column:group_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
