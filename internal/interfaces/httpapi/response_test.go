package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"wrapped invalid input", fmt.Errorf("%w: gameweek", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"precondition", usecase.ErrPreconditionViolation, http.StatusConflict, "FAILED_PRECONDITION"},
		{"reconciliation", usecase.ErrReconciliationFailed, http.StatusUnprocessableEntity, "RECONCILIATION_FAILED"},
		{"dependency", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := mapError(context.Background(), tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", mapped.HTTPStatus, tc.wantStatus)
			}
			if mapped.Status != tc.wantCode {
				t.Errorf("Status = %q, want %q", mapped.Status, tc.wantCode)
			}
		})
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: pot already settled", usecase.ErrPreconditionViolation))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Errorf("apiVersion = %q, want %q", envelope.APIVersion, googleAPIVersion)
	}
	if envelope.Error == nil {
		t.Fatal("error body is nil")
	}
	if envelope.Error.Status != "FAILED_PRECONDITION" {
		t.Errorf("error status = %q, want FAILED_PRECONDITION", envelope.Error.Status)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != errorDomain {
		t.Errorf("error items = %+v, want one item in domain %q", envelope.Error.Errors, errorDomain)
	}
}

func TestWriteInternalErrorHidesDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeInternalError(context.Background(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Message != "internal server error" {
		t.Errorf("error = %+v, want the generic message only", envelope.Error)
	}
}
