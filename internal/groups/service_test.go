package groups

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
)

type stubGroupStore struct {
	groups  map[uuid.UUID]*models.CustomerGroup
	created []*models.CustomerGroup
}

func newStubGroupStore() *stubGroupStore {
	return &stubGroupStore{groups: map[uuid.UUID]*models.CustomerGroup{}}
}

func (s *stubGroupStore) Create(_ context.Context, group *models.CustomerGroup) (*models.CustomerGroup, error) {
	for _, existing := range s.groups {
		if existing.Name == group.Name {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer group name already exists")
		}
	}
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	s.groups[group.ID] = group
	s.created = append(s.created, group)
	return group, nil
}

func (s *stubGroupStore) FindByID(_ context.Context, id uuid.UUID) (*models.CustomerGroup, error) {
	group, ok := s.groups[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer group not found")
	}
	return group, nil
}

func (s *stubGroupStore) List(_ context.Context) ([]models.CustomerGroup, error) {
	out := make([]models.CustomerGroup, 0, len(s.groups))
	for _, group := range s.groups {
		out = append(out, *group)
	}
	return out, nil
}

type stubCustomerReader struct {
	membership map[uuid.UUID]*uuid.UUID
}

func (s *stubCustomerReader) GroupID(_ context.Context, customerID uuid.UUID) (*uuid.UUID, error) {
	return s.membership[customerID], nil
}

func newTestService(t *testing.T) (Service, *stubGroupStore, *stubCustomerReader) {
	t.Helper()
	store := newStubGroupStore()
	reader := &stubCustomerReader{membership: map[uuid.UUID]*uuid.UUID{}}
	svc, err := NewService(store, reader)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store, reader
}

func TestCreateGroupDefaultsAndValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:               "  Wholesale Gold  ",
		DiscountPercentage: decimal.NewFromInt(10),
		MinOrderValueCents: 50000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.Name != "Wholesale Gold" {
		t.Fatalf("expected trimmed name, got %q", group.Name)
	}
	if group.PaymentTerms != enums.DefaultPaymentTerms {
		t.Fatalf("expected default payment terms, got %q", group.PaymentTerms)
	}

	cases := []CreateGroupInput{
		{Name: "   "},
		{Name: "Over", DiscountPercentage: decimal.NewFromInt(101)},
		{Name: "Negative", DiscountPercentage: decimal.NewFromInt(-1)},
		{Name: "MinNeg", MinOrderValueCents: -1},
	}
	for _, input := range cases {
		if _, err := svc.CreateGroup(ctx, input); err == nil {
			t.Fatalf("expected validation error for %+v", input)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code for %+v, got %v", input, err)
		}
	}
}

func TestDiscountForCustomerSafeDefaults(t *testing.T) {
	svc, store, reader := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:               "Silver",
		DiscountPercentage: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	grouped := uuid.New()
	ungrouped := uuid.New()
	dangling := uuid.New()
	danglingGroupID := uuid.New()
	reader.membership[grouped] = &group.ID
	reader.membership[dangling] = &danglingGroupID

	discount, err := svc.DiscountForCustomer(ctx, grouped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !discount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected 5%% for grouped customer, got %s", discount)
	}

	// No group, unknown customer, and dangling group reference all price at 0.
	for _, id := range []uuid.UUID{ungrouped, uuid.New(), dangling} {
		discount, err := svc.DiscountForCustomer(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", id, err)
		}
		if !discount.IsZero() {
			t.Fatalf("expected zero discount for %s, got %s", id, discount)
		}
	}

	if len(store.created) != 1 {
		t.Fatalf("expected a single created group, got %d", len(store.created))
	}
}

func TestPaymentTermsAndMinOrderValueForCustomer(t *testing.T) {
	svc, _, reader := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:               "Net60 Buyers",
		PaymentTerms:       "NET60",
		MinOrderValueCents: 25000,
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	customerID := uuid.New()
	reader.membership[customerID] = &group.ID

	terms, err := svc.PaymentTermsForCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terms != "NET60" {
		t.Fatalf("expected NET60, got %q", terms)
	}

	minValue, err := svc.MinOrderValueForCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minValue != 25000 {
		t.Fatalf("expected 25000, got %d", minValue)
	}

	terms, err = svc.PaymentTermsForCustomer(ctx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terms != enums.DefaultPaymentTerms {
		t.Fatalf("expected default terms for ungrouped customer, got %q", terms)
	}
}

func TestGetGroupRequiresID(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GetGroup(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected validation error for nil group id")
	}
}
