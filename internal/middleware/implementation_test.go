package middleware_test

import (
	"testing"

	"github.com/rcastellanos/InvoiceRAG/internal/middleware"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

func TestIsValidBearerToken(t *testing.T) {
	log := logger_i.NewLogger("test")

	t.Run("No_Token_Configured_Allows_All", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN", "")
		if !middleware.IsValidBearerToken("", log) {
			t.Error("expected open access when no token is configured")
		}
	})

	t.Run("Valid_Token", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN", "s3cret")
		if !middleware.IsValidBearerToken("Bearer s3cret", log) {
			t.Error("valid bearer token rejected")
		}
	})

	t.Run("Wrong_Token", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN", "s3cret")
		if middleware.IsValidBearerToken("Bearer nope", log) {
			t.Error("wrong bearer token accepted")
		}
	})

	t.Run("Missing_Bearer_Prefix", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN", "s3cret")
		if middleware.IsValidBearerToken("s3cret", log) {
			t.Error("header without Bearer prefix accepted")
		}
	})

	t.Run("Empty_Header", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN", "s3cret")
		if middleware.IsValidBearerToken("", log) {
			t.Error("empty header accepted while a token is configured")
		}
	})
}

func TestIPRateLimiter_SameIPSharesLimiter(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 1)

	a := limiter.GetLimiter("10.0.0.1")
	b := limiter.GetLimiter("10.0.0.1")
	if a != b {
		t.Error("same IP produced two limiters")
	}

	c := limiter.GetLimiter("10.0.0.2")
	if a == c {
		t.Error("different IPs share a limiter")
	}
}

func TestIPRateLimiter_BurstExhaustion(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 2)
	l := limiter.GetLimiter("10.0.0.9")

	if !l.Allow() || !l.Allow() {
		t.Fatal("burst of 2 not granted")
	}
	if l.Allow() {
		t.Error("third immediate request allowed past the burst")
	}
}
