package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsStatusAndCode(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		status int
		code   string
	}{
		{"provider", Provider("openai", errors.New("boom")), http.StatusServiceUnavailable, CodeProvider},
		{"rate", RateLimited("learning_path", 0), http.StatusTooManyRequests, CodeRateLimit},
		{"vector", VectorStore(errors.New("down")), http.StatusServiceUnavailable, CodeVectorStore},
		{"health", HealthCheck(errors.New("down")), http.StatusServiceUnavailable, CodeHealthCheck},
		{"config", Configuration(errors.New("bad provider")), http.StatusBadRequest, CodeConfiguration},
		{"not found", NotFound(errors.New("no route")), http.StatusNotFound, CodeNotFound},
		{"validation", Validation(errors.New("bad"), nil), http.StatusBadRequest, CodeValidation},
		{"internal", Internal(errors.New("bad")), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Status != tc.status {
				t.Fatalf("status: got=%d want=%d", tc.err.Status, tc.status)
			}
			if tc.err.Code != tc.code {
				t.Fatalf("code: got=%s want=%s", tc.err.Code, tc.code)
			}
			if tc.err.Label() == "" {
				t.Fatalf("empty label")
			}
		})
	}
}

func TestRateLimitedDefaultsRetryAfter(t *testing.T) {
	e := RateLimited("embeddings", 0)
	if e.RetryAfter != DefaultRetryAfter {
		t.Fatalf("retry after: got=%d want=%d", e.RetryAfter, DefaultRetryAfter)
	}
	if !IsRateLimit(fmt.Errorf("wrapped: %w", e)) {
		t.Fatalf("wrapped rate limit not detected")
	}
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	got := As(errors.New("plain"))
	if got.Code != CodeInternal {
		t.Fatalf("code: got=%s want=%s", got.Code, CodeInternal)
	}
	orig := Validation(errors.New("x"), map[string]string{"subject": "required"})
	if As(fmt.Errorf("ctx: %w", orig)) != orig {
		t.Fatalf("As did not unwrap the original error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}
