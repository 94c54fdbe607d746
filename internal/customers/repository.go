package customers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/omexsoft/b2b-backend/pkg/db/models"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"gorm.io/gorm"
)

// Reader resolves a customer's group membership. The customer directory is
// owned elsewhere; this package only reads the synced rows.
type Reader interface {
	GroupID(ctx context.Context, customerID uuid.UUID) (*uuid.UUID, error)
}

// Repository reads customers via GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GroupID returns the customer's group ID, or nil when the customer has no
// group or is unknown to the read model. An unknown customer is not an error
// here: pricing for ungrouped customers simply skips group discounts.
func (r *Repository) GroupID(ctx context.Context, customerID uuid.UUID) (*uuid.UUID, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer.GroupID, nil
}
