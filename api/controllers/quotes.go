package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omexsoft/b2b-backend/api/responses"
	"github.com/omexsoft/b2b-backend/api/validators"
	"github.com/omexsoft/b2b-backend/internal/quotes"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/logger"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

type pricedItemPayload struct {
	ProductID          string           `json:"product_id" validate:"required"`
	Quantity           int              `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents     int64            `json:"unit_price_cents" validate:"gte=0"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
}

func toPricedItems(payload []pricedItemPayload) types.PricedLineItems {
	items := make(types.PricedLineItems, 0, len(payload))
	for _, item := range payload {
		discount := decimal.Zero
		if item.DiscountPercentage != nil {
			discount = *item.DiscountPercentage
		}
		items = append(items, types.PricedLineItem{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPriceCents:     item.UnitPriceCents,
			DiscountPercentage: discount,
		})
	}
	return items
}

type createQuoteRequest struct {
	CustomerID string              `json:"customer_id" validate:"required,uuid"`
	Items      []pricedItemPayload `json:"items" validate:"required,min=1,dive"`
	ValidUntil *time.Time          `json:"valid_until,omitempty"`
	Notes      *string             `json:"notes,omitempty"`
}

// CreateQuote persists a draft quote from already-priced items.
func CreateQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		quote, err := svc.CreateQuote(r.Context(), quotes.CreateQuoteInput{
			CustomerID: customerID,
			Items:      toPricedItems(req.Items),
			ValidUntil: req.ValidUntil,
			Notes:      req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// GetQuote returns one quote, applying lazy expiry.
func GetQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quoteID, err := validators.ParseURLUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.GetQuote(r.Context(), quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateQuoteStatus drives the quote state machine.
func UpdateQuoteStatus(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quoteID, err := validators.ParseURLUUID(chi.URLParam(r, "quoteId"), "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseQuoteStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown quote status"))
			return
		}

		quote, err := svc.UpdateQuoteStatus(r.Context(), quoteID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// ListCustomerQuotes returns a customer's quotes with optional status filter
// and cursor pagination.
func ListCustomerQuotes(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseURLUUID(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.QuoteStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseQuoteStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown quote status"))
				return
			}
			status = &parsed
		}

		list, err := svc.ListCustomerQuotes(r.Context(), customerID, status, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
