package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeDependency, cause, "load quote")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeStateConflict, "quote already accepted")
	wrapped := fmt.Errorf("handling request: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal metadata, got status %d", meta.HTTPStatus)
	}
}

func TestDuplicatePONumberMapsToConflictStatus(t *testing.T) {
	meta := MetadataFor(CodeDuplicatePONumber)
	if meta.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("duplicate PO errors must carry the existing record id in details")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInternal, cause, "outer")

	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
