package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	tests := []struct {
		rps       float64
		burst     int
		wantBurst int
		wantLimit rate.Limit
	}{
		{10, 5, 5, 10},
		{10, -1, 5, 10},
		{0, 2, 2, rate.Inf},
	}
	for _, tt := range tests {
		l := NewLimiter(tt.rps, tt.burst)
		if l.burst != tt.wantBurst || l.limit != tt.wantLimit {
			t.Errorf("NewLimiter(%v, %d): expected %v/%d, got %v/%d",
				tt.rps, tt.burst, tt.wantLimit, tt.wantBurst, l.limit, l.burst)
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://localhost:8090/analyze"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host should also work
	if err := limiter.Wait(ctx, "http://analyzer.internal/analyze"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

// tryWait reports whether a request may proceed without waiting long.
func tryWait(l *Limiter, endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, endpoint) == nil
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx := context.Background()
	url := "http://localhost:8090/analyze"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is consumed
	if tryWait(limiter, url) {
		t.Errorf("expected wait to fail (exhausted tokens)")
	}

	if !tryWait(limiter, "http://other:8090/analyze") {
		t.Errorf("expected wait to pass for other host")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	url := "http://localhost:8090/analyze"

	for i := 0; i < 10; i++ {
		if !tryWait(limiter, url) {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("http://localhost:8090/analyze")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "localhost:8090" {
		t.Errorf("expected localhost:8090, got %s", host)
	}

	_, err = extractHost("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
