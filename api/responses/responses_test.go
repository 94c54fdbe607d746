package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/omexsoft/b2b-backend/pkg/errors"
	"github.com/omexsoft/b2b-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["id"] != "abc" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestWriteErrorMapsCodes(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{pkgerrors.New(pkgerrors.CodeNotFound, "quote not found"), http.StatusNotFound, "NOT_FOUND"},
		{pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed"), http.StatusUnprocessableEntity, "STATE_CONFLICT"},
		{pkgerrors.New(pkgerrors.CodeDuplicatePONumber, "po number already exists"), http.StatusConflict, "DUPLICATE_PO_NUMBER"},
		{pkgerrors.New(pkgerrors.CodeConflict, "concurrent update"), http.StatusConflict, "CONFLICT"},
		{pkgerrors.New(pkgerrors.CodeDependency, "db down"), http.StatusServiceUnavailable, "DEPENDENCY_ERROR"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, tc.err)
		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: expected %d, got %d", tc.wantCode, tc.wantStatus, rec.Code)
		}
		envelope := decodeError(t, rec)
		if envelope.Error.Code != tc.wantCode {
			t.Fatalf("expected code %s, got %s", tc.wantCode, envelope.Error.Code)
		}
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "sensitive internals").
		WithDetails(map[string]any{"secret": "value"})
	WriteError(context.Background(), nil, rec, err)

	envelope := decodeError(t, rec)
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal messages must not leak, got %q", envelope.Error.Message)
	}
	if envelope.Error.Details != nil {
		t.Fatalf("internal details must not leak, got %v", envelope.Error.Details)
	}
}

func TestWriteErrorSurfacesTransitionContext(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeStateConflict, "quote status transition not allowed").
		WithDetails(map[string]any{"current_status": "accepted", "requested_status": "sent"})
	WriteError(context.Background(), nil, rec, err)

	envelope := decodeError(t, rec)
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", envelope.Error.Details)
	}
	if details["current_status"] != "accepted" || details["requested_status"] != "sent" {
		t.Fatalf("expected transition context, got %v", details)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped error, got %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %s", envelope.Error.Code)
	}
}
