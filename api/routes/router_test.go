package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omexsoft/b2b-backend/internal/quotes"
	"github.com/omexsoft/b2b-backend/pkg/config"
	"github.com/omexsoft/b2b-backend/pkg/db/models"
	"github.com/omexsoft/b2b-backend/pkg/enums"
	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/logger"
	"github.com/omexsoft/b2b-backend/pkg/metrics"
	"github.com/omexsoft/b2b-backend/pkg/pagination"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

type stubCatalog struct {
	snapshots map[string]types.ProductSnapshot
}

func (s *stubCatalog) Snapshot(_ context.Context, productID string) (*types.ProductSnapshot, error) {
	if snap, ok := s.snapshots[productID]; ok {
		return &snap, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalog) Snapshots(_ context.Context, productIDs []string) (map[string]types.ProductSnapshot, error) {
	found := make(map[string]types.ProductSnapshot, len(productIDs))
	for _, id := range productIDs {
		if snap, ok := s.snapshots[id]; ok {
			found[id] = snap
		}
	}
	return found, nil
}

type stubQuotesService struct {
	quote *models.Quote
}

func (s *stubQuotesService) CreateQuote(context.Context, quotes.CreateQuoteInput) (*models.Quote, error) {
	return s.quote, nil
}

func (s *stubQuotesService) GetQuote(_ context.Context, id uuid.UUID) (*models.Quote, error) {
	if s.quote != nil && s.quote.ID == id {
		return s.quote, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
}

func (s *stubQuotesService) UpdateQuoteStatus(context.Context, uuid.UUID, enums.QuoteStatus) (*models.Quote, error) {
	return s.quote, nil
}

func (s *stubQuotesService) ListCustomerQuotes(context.Context, uuid.UUID, *enums.QuoteStatus, pagination.Params) (*quotes.QuoteList, error) {
	return &quotes.QuoteList{}, nil
}

func newTestRouter(t *testing.T, catalogStub *stubCatalog, quotesStub *stubQuotesService) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "router-test"})

	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          nil,
		Redis:       nil,
		HTTPMetrics: metrics.NewHTTPMetrics(nil),
		Catalog:     catalogStub,
		Quotes:      quotesStub,
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{}, &stubQuotesService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Omex-Env"))

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "live", envelope.Data["status"])
}

func TestRouterResolvePrice(t *testing.T) {
	catalogStub := &stubCatalog{snapshots: map[string]types.ProductSnapshot{
		"SKU-1": {
			ProductID:      "SKU-1",
			BasePriceCents: 1000,
			Tiers: types.PricingTiers{
				{MinQty: 10, UnitPriceCents: 900},
			},
		},
	}}
	router := newTestRouter(t, catalogStub, &stubQuotesService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/resolve",
		strings.NewReader(`{"product_id":"SKU-1","quantity":10}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data struct {
			UnitPriceCents int64 `json:"unit_price_cents"`
			TierMatched    bool  `json:"tier_matched"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, int64(900), envelope.Data.UnitPriceCents)
	assert.True(t, envelope.Data.TierMatched)
}

func TestRouterUnknownQuoteReturnsErrorEnvelope(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{}, &stubQuotesService{})

	target := "/api/v1/quotes/" + uuid.NewString()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeNotFound), envelope.Error.Code)
	assert.Equal(t, "quote not found", envelope.Error.Message)
}

func TestRouterMalformedQuoteIDRejected(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{}, &stubQuotesService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}
