package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omexsoft/b2b-backend/api/responses"
	"github.com/omexsoft/b2b-backend/api/validators"
	"github.com/omexsoft/b2b-backend/internal/purchaseorders"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/logger"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
)

type createPurchaseOrderRequest struct {
	CustomerID   string              `json:"customer_id" validate:"required,uuid"`
	PONumber     string              `json:"po_number" validate:"required"`
	Items        []pricedItemPayload `json:"items" validate:"required,min=1,dive"`
	PaymentTerms string              `json:"payment_terms,omitempty"`
	DeliveryDate *time.Time          `json:"delivery_date,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
}

// CreatePurchaseOrder persists a pending purchase order, enforcing po_number
// uniqueness.
func CreatePurchaseOrder(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPurchaseOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		po, err := svc.CreatePurchaseOrder(r.Context(), purchaseorders.CreatePurchaseOrderInput{
			CustomerID:   customerID,
			PONumber:     req.PONumber,
			Items:        toPricedItems(req.Items),
			PaymentTerms: req.PaymentTerms,
			DeliveryDate: req.DeliveryDate,
			Notes:        req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, po)
	}
}

// GetPurchaseOrder returns one purchase order.
func GetPurchaseOrder(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := validators.ParseURLUUID(chi.URLParam(r, "poId"), "poId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		po, err := svc.GetPurchaseOrder(r.Context(), poID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, po)
	}
}

// UpdatePurchaseOrderStatus drives the fulfillment state machine.
func UpdatePurchaseOrderStatus(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poID, err := validators.ParseURLUUID(chi.URLParam(r, "poId"), "poId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePurchaseOrderStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown purchase order status"))
			return
		}

		po, err := svc.UpdatePurchaseOrderStatus(r.Context(), poID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, po)
	}
}

// ListCustomerPurchaseOrders returns a customer's purchase orders with
// optional status filter and cursor pagination.
func ListCustomerPurchaseOrders(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var status *enums.PurchaseOrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParsePurchaseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown purchase order status"))
				return
			}
			status = &parsed
		}

		list, err := svc.ListCustomerPurchaseOrders(r.Context(), customerID, status, pagination.Params{
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
