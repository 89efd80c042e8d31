package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_StatusLookup(t *testing.T) {
	cases := map[Code]int{
		CodeProjectKeyMissing:        http.StatusUnauthorized,
		CodeSignatureInvalid:        http.StatusUnauthorized,
		CodeTooManyEvents:            http.StatusBadRequest,
		CodeIPRateLimitExceeded:      http.StatusTooManyRequests,
		CodeProjectRateLimitExceeded: http.StatusTooManyRequests,
		CodeDBBulkInsertFailed:       http.StatusInternalServerError,
	}
	for code, want := range cases {
		err := New(code, "x")
		if got := err.Status(); got != want {
			t.Errorf("New(%s).Status() = %d, want %d", code, got, want)
		}
	}
}

func TestError_UnknownCodeDefaultsTo500(t *testing.T) {
	err := New(Code("SOMETHING_UNMAPPED"), "x")
	if err.Status() != http.StatusInternalServerError {
		t.Errorf("Status() = %d, want 500 for an unmapped code", err.Status())
	}
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("underlying failure")
	err := Wrap(CodeDatabaseError, "lookup failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(wrapped, cause) = false, want true")
	}
}

func TestRateLimited_SetsRetryAfter(t *testing.T) {
	err := RateLimited(CodeIPRateLimitExceeded, "too fast")
	if err.RetryAfter != 60 {
		t.Errorf("RetryAfter = %d, want 60", err.RetryAfter)
	}
}

func TestAs_ExtractsTaggedError(t *testing.T) {
	var err error = New(CodeProjectNotFound, "nope")
	ae, ok := As(err)
	if !ok {
		t.Fatal("As() ok = false, want true")
	}
	if ae.Code != CodeProjectNotFound {
		t.Errorf("Code = %s, want %s", ae.Code, CodeProjectNotFound)
	}

	_, ok = As(errors.New("plain error"))
	if ok {
		t.Error("As() ok = true for a plain error, want false")
	}
}
