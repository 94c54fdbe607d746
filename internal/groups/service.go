package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omexsoft/b2b-backend/internal/customers"
	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Service owns the customer group registry and answers the per-customer
// pricing and validation lookups the calculator and validator depend on.
type Service interface {
	CreateGroup(ctx context.Context, input CreateGroupInput) (*models.CustomerGroup, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*models.CustomerGroup, error)
	ListGroups(ctx context.Context) ([]models.CustomerGroup, error)
	GroupForCustomer(ctx context.Context, customerID uuid.UUID) (*models.CustomerGroup, error)
	DiscountForCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	MinOrderValueForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	PaymentTermsForCustomer(ctx context.Context, customerID uuid.UUID) (string, error)
}

// CreateGroupInput holds the validated payload to create a group.
type CreateGroupInput struct {
	Name               string
	DiscountPercentage decimal.Decimal
	MinOrderValueCents int64
	PaymentTerms       string
	CatalogScope       []string
}

type groupStore interface {
	Create(ctx context.Context, group *models.CustomerGroup) (*models.CustomerGroup, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerGroup, error)
	List(ctx context.Context) ([]models.CustomerGroup, error)
}

type service struct {
	repo      groupStore
	customers customers.Reader
}

// NewService constructs the group registry service.
func NewService(repo groupStore, customerReader customers.Reader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group repository required")
	}
	if customerReader == nil {
		return nil, fmt.Errorf("customer reader required")
	}
	return &service{repo: repo, customers: customerReader}, nil
}

func (s *service) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.CustomerGroup, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group name is required")
	}
	if input.DiscountPercentage.LessThan(decimal.Zero) || input.DiscountPercentage.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100").
			WithDetails(map[string]any{"discount_percentage": input.DiscountPercentage.String()})
	}
	if input.MinOrderValueCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value must not be negative")
	}

	terms := strings.TrimSpace(input.PaymentTerms)
	if terms == "" {
		terms = enums.DefaultPaymentTerms
	}

	return s.repo.Create(ctx, &models.CustomerGroup{
		Name:               name,
		DiscountPercentage: input.DiscountPercentage,
		MinOrderValueCents: input.MinOrderValueCents,
		PaymentTerms:       terms,
		CatalogScope:       input.CatalogScope,
	})
}

func (s *service) GetGroup(ctx context.Context, id uuid.UUID) (*models.CustomerGroup, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListGroups(ctx context.Context) ([]models.CustomerGroup, error) {
	return s.repo.List(ctx)
}

// GroupForCustomer resolves the customer's group, or nil when the customer is
// ungrouped or unknown. Absence is not an error here.
func (s *service) GroupForCustomer(ctx context.Context, customerID uuid.UUID) (*models.CustomerGroup, error) {
	if customerID == uuid.Nil {
		return nil, nil
	}
	groupID, err := s.customers.GroupID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if groupID == nil {
		return nil, nil
	}
	group, err := s.repo.FindByID(ctx, *groupID)
	if err != nil {
		// A dangling group reference prices like no group at all.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}

func (s *service) DiscountForCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	group, err := s.GroupForCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if group == nil {
		return decimal.Zero, nil
	}
	return group.DiscountPercentage, nil
}

func (s *service) MinOrderValueForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	group, err := s.GroupForCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if group == nil {
		return 0, nil
	}
	return group.MinOrderValueCents, nil
}

func (s *service) PaymentTermsForCustomer(ctx context.Context, customerID uuid.UUID) (string, error) {
	group, err := s.GroupForCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}
	if group == nil || group.PaymentTerms == "" {
		return enums.DefaultPaymentTerms, nil
	}
	return group.PaymentTerms, nil
}
