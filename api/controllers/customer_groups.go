package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/omexsoft/b2b-backend/api/responses"
	"github.com/omexsoft/b2b-backend/api/validators"
	"github.com/omexsoft/b2b-backend/internal/groups"
	"github.com/omexsoft/b2b-backend/pkg/logger"
)

type createCustomerGroupRequest struct {
	Name               string          `json:"name" validate:"required"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	MinOrderValueCents int64           `json:"min_order_value_cents" validate:"gte=0"`
	PaymentTerms       string          `json:"payment_terms,omitempty"`
	CatalogScope       []string        `json:"catalog_scope,omitempty"`
}

// CreateCustomerGroup registers a pricing group.
func CreateCustomerGroup(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCustomerGroupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.CreateGroup(r.Context(), groups.CreateGroupInput{
			Name:               req.Name,
			DiscountPercentage: req.DiscountPercentage,
			MinOrderValueCents: req.MinOrderValueCents,
			PaymentTerms:       req.PaymentTerms,
			CatalogScope:       req.CatalogScope,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

// GetCustomerGroup returns one group by id.
func GetCustomerGroup(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseURLUUID(chi.URLParam(r, "groupId"), "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.GetGroup(r.Context(), groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// ListCustomerGroups returns every group, ordered by name.
func ListCustomerGroups(svc groups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListGroups(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
