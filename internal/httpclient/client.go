package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single provider request end to end.
const DefaultTimeout = 120 * time.Second

// Transport rate-limits outbound requests and stamps a User-Agent before
// delegating to Base.
type Transport struct {
	Base      http.RoundTripper
	limiter   *rate.Limiter
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

type settings struct {
	timeout   time.Duration
	rps       float64
	burst     int
	userAgent string
	base      http.RoundTripper
}

// Option configures the client returned by New.
type Option func(*settings)

// WithRateLimit sets requests per second. Zero or negative disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *settings) {
		s.rps = rps
		s.burst = burst
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithUserAgent sets the User-Agent applied to requests that lack one.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithBaseTransport replaces http.DefaultTransport underneath the limiter.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(s *settings) { s.base = rt }
}

// New creates an *http.Client shared by every provider client built from
// the same registry, so the rate limit applies across vendors.
func New(opts ...Option) *http.Client {
	s := settings{timeout: DefaultTimeout, burst: 1}
	for _, opt := range opts {
		opt(&s)
	}

	t := &Transport{Base: s.base, userAgent: s.userAgent}
	if s.rps > 0 {
		burst := s.burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(s.rps), burst)
	}

	return &http.Client{Timeout: s.timeout, Transport: t}
}
