package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles requests per endpoint host, so several analyzer
// services configured side by side do not share one budget.
type Limiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewLimiter allows requestsPerSecond per host with the given burst
// (default 5). A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{limit: limit, burst: burst, hosts: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to endpoint may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	rl, err := l.forEndpoint(endpoint)
	if err != nil {
		return err
	}
	return rl.Wait(ctx)
}

func (l *Limiter) forEndpoint(endpoint string) (*rate.Limiter, error) {
	host, err := extractHost(endpoint)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	rl, ok := l.hosts[host]
	if !ok {
		rl = rate.NewLimiter(l.limit, l.burst)
		l.hosts[host] = rl
	}
	return rl, nil
}

func extractHost(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("limiter: %w", err)
	}
	return u.Host, nil
}
