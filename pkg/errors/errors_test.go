package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeStorage, status: http.StatusServiceUnavailable, publicMsg: "local storage unavailable", retryable: true},
		{code: CodeSchemaMismatch, status: http.StatusConflict, publicMsg: "stored data has an incompatible schema", detailsOK: true},
		{code: CodeUnresolvedProduct, status: http.StatusNotFound, publicMsg: "product no longer in catalog", detailsOK: true},
		{code: CodeUnknownAddress, status: http.StatusNotFound, publicMsg: "unrecognized address"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing product id")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing product id" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "productId"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("quota exceeded")
	wrapped := Wrap(CodeStorage, cause, "write guest-cart")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeStorage {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "STORAGE_UNAVAILABLE: write guest-cart: quota exceeded" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestAsAndHasCodeThroughWrapping(t *testing.T) {
	typed := New(CodeSchemaMismatch, "version 0.9")
	err := fmt.Errorf("hydrate: %w", typed)

	if got := As(err); got != typed {
		t.Fatalf("expected As to unwrap typed error")
	}
	if !HasCode(err, CodeSchemaMismatch) {
		t.Fatalf("expected HasCode to match")
	}
	if HasCode(stdErrors.New("plain"), CodeSchemaMismatch) {
		t.Fatalf("plain error should not carry a code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeStorage, stdErrors.New("disk full"), "persist")
	dump := Dump(err)
	if dump.Code != CodeStorage {
		t.Fatalf("expected storage code in dump, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("expected empty dump for nil")
	}
}
