package middleware

import (
	"fmt"
	"net/http"

	"github.com/fakhrymubarak/skycast/internal/config"
	"golang.org/x/time/rate"
)

// RateLimitedTransport throttles outbound requests with a token bucket so a
// burst of refreshes stays inside the upstream API quota.
type RateLimitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

var _ http.RoundTripper = (*RateLimitedTransport)(nil)

// NewRateLimitedTransport wraps next; a nil next means http.DefaultTransport.
// rps may be fractional for less than one request per second.
func NewRateLimitedTransport(next http.RoundTripper, rps float64, burst int) *RateLimitedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RateLimitedTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// NewConfiguredTransport builds a transport from the rate_limiter config block.
func NewConfiguredTransport(next http.RoundTripper) *RateLimitedTransport {
	rps, burst := config.GetRateLimiterConfig()
	return NewRateLimitedTransport(next, rps, burst)
}

// RoundTrip waits for a token, or for the request's context to end.
func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		config.GetLogger().Debugw("Rate limit wait aborted", "host", req.URL.Host, "error", err)
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", ctxErr)
		}
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return t.next.RoundTrip(req)
}
