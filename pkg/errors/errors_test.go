package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataMapsCodesToTransport(t *testing.T) {
	cases := map[Code]struct {
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		CodeValidation:    {status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		CodeUnauthorized:  {status: http.StatusUnauthorized, publicMsg: "authentication required"},
		CodeForbidden:     {status: http.StatusForbidden, publicMsg: "access denied"},
		CodeNotFound:      {status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		CodeConflict:      {status: http.StatusConflict, publicMsg: "conflict detected"},
		CodeOutOfStock:    {status: http.StatusConflict, publicMsg: "insufficient stock", detailsOK: true},
		CodeStateConflict: {status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		CodeRateLimit:     {status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		CodeInternal:      {status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		CodeDependency:    {status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for code, want := range cases {
		meta := MetadataFor(code)
		if meta.HTTPStatus != want.status {
			t.Errorf("%s: status %d, want %d", code, meta.HTTPStatus, want.status)
		}
		if meta.PublicMessage != want.publicMsg {
			t.Errorf("%s: public message %q, want %q", code, meta.PublicMessage, want.publicMsg)
		}
		if meta.Retryable != want.retryable {
			t.Errorf("%s: retryable %v, want %v", code, meta.Retryable, want.retryable)
		}
		if meta.DetailsAllowed != want.detailsOK {
			t.Errorf("%s: details allowed %v, want %v", code, meta.DetailsAllowed, want.detailsOK)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	if got := MetadataFor("NO_SUCH_CODE").HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", got)
	}
}

func TestNewAndDetails(t *testing.T) {
	err := New(CodeValidation, "telefono is required")
	if err.Code() != CodeValidation || err.Message() != "telefono is required" {
		t.Fatalf("unexpected code/message: %s %q", err.Code(), err.Message())
	}
	if err.Details() != nil {
		t.Fatalf("details should start nil")
	}
	err.WithDetails(map[string]any{"field": "telefono"})
	if err.Details() == nil {
		t.Fatalf("details were not attached")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection reset")
	wrapped := Wrap(CodeDependency, cause, "redis publish")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("cause lost through Wrap")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsExtractsTypedError(t *testing.T) {
	if got := As(New(CodeForbidden, "staff only")); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed on typed error")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("As should return nil for untyped errors")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}
