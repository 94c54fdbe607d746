package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omexsoft/b2b-backend/pkg/db"
	"github.com/omexsoft/b2b-backend/pkg/db/models"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
)

// Repository persists customer groups via GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the group. A name collision on uq_customer_groups_name is
// surfaced as a conflict.
func (r *Repository) Create(ctx context.Context, group *models.CustomerGroup) (*models.CustomerGroup, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if db.IsUniqueViolation(err, "uq_customer_groups_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer group name already exists").
				WithDetails(map[string]any{"name": group.Name})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer group")
	}
	return group, nil
}

// FindByID loads a group.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerGroup, error) {
	var group models.CustomerGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer group not found").
				WithDetails(map[string]any{"group_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer group")
	}
	return &group, nil
}

// List returns all groups ordered by name. The registry is small; no cursor.
func (r *Repository) List(ctx context.Context) ([]models.CustomerGroup, error) {
	var out []models.CustomerGroup
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer groups")
	}
	return out, nil
}
