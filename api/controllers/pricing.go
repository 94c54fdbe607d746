package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omexsoft/b2b-backend/api/responses"
	"github.com/omexsoft/b2b-backend/api/validators"
	"github.com/omexsoft/b2b-backend/internal/catalog"
	"github.com/omexsoft/b2b-backend/internal/pricing"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/logger"
)

type resolvePriceRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type resolvePriceResponse struct {
	ProductID          string          `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPriceCents     int64           `json:"unit_price_cents"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TierMatched        bool            `json:"tier_matched"`
}

// ResolvePrice returns the tier price for one product and quantity.
func ResolvePrice(catalogReader catalog.Reader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolvePriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := catalogReader.Snapshot(r.Context(), req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolution, err := pricing.ResolvePrice(req.ProductID, req.Quantity, snap.Tiers, snap.BasePriceCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resolvePriceResponse{
			ProductID:          req.ProductID,
			Quantity:           req.Quantity,
			UnitPriceCents:     resolution.UnitPriceCents,
			DiscountPercentage: resolution.DiscountPercentage,
			TierMatched:        resolution.TierMatched,
		})
	}
}

type requestedItemPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type calculatePricingRequest struct {
	CustomerID *string                `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Items      []requestedItemPayload `json:"items" validate:"required,min=1,dive"`
}

func toRequestedItems(payload []requestedItemPayload) []pricing.RequestedItem {
	items := make([]pricing.RequestedItem, 0, len(payload))
	for _, item := range payload {
		items = append(items, pricing.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items
}

func parseOptionalCustomerID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return &id, nil
}

// CalculatePricing prices a cart of requested items for an optional customer.
func CalculatePricing(calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calculatePricingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := parseOptionalCustomerID(req.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := calc.Calculate(r.Context(), customerID, toRequestedItems(req.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
