package controllers

import (
	"net/http"

	"github.com/omexsoft/b2b-backend/api/responses"
	"github.com/omexsoft/b2b-backend/api/validators"
	"github.com/omexsoft/b2b-backend/internal/ordervalidation"
	"github.com/omexsoft/b2b-backend/pkg/logger"
)

type validateOrderRequest struct {
	CustomerID *string                `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Items      []requestedItemPayload `json:"items" validate:"required,min=1,dive"`
}

// ValidateOrder checks requested items against catalog constraints and, when
// a customer is supplied, the group minimum order value.
func ValidateOrder(v *ordervalidation.Validator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := parseOptionalCustomerID(req.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := v.Validate(r.Context(), customerID, toRequestedItems(req.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
