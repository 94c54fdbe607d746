package catalog

import (
	"context"
	"errors"

	"github.com/omexsoft/b2b-backend/pkg/db/models"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/types"
	"gorm.io/gorm"
)

// Reader exposes read-only access to the product catalog read model.
// Pricing and validation consume snapshots rather than live rows so a
// single request always sees a consistent picture of each product.
type Reader interface {
	Snapshot(ctx context.Context, productID string) (*types.ProductSnapshot, error)
	Snapshots(ctx context.Context, productIDs []string) (map[string]types.ProductSnapshot, error)
}

// Repository reads products via GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Snapshot loads a single product snapshot.
func (r *Repository) Snapshot(ctx context.Context, productID string) (*types.ProductSnapshot, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": productID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	snap := product.Snapshot()
	return &snap, nil
}

// Snapshots loads snapshots for the given product IDs. Unknown IDs are
// simply absent from the result map; callers decide whether that is an
// error for their operation.
func (r *Repository) Snapshots(ctx context.Context, productIDs []string) (map[string]types.ProductSnapshot, error) {
	out := make(map[string]types.ProductSnapshot, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	for i := range products {
		out[products[i].ID] = products[i].Snapshot()
	}
	return out, nil
}
