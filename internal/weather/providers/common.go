package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultTimeout bounds every outbound provider call.
const DefaultTimeout = 10 * time.Second

// BreakerConfig controls when the circuit breaker opens and for how long.
type BreakerConfig struct {
	// ConsecutiveFailures is the number of transport failures in a row
	// that opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a
	// single probe request through.
	OpenTimeout time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker BreakerConfig
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// DefaultHTTPClientConfig returns a client with the standard timeout and
// a breaker that opens after three transport failures in a row.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Client: &http.Client{Timeout: DefaultTimeout},
		Breaker: BreakerConfig{
			ConsecutiveFailures: 3,
			OpenTimeout:         30 * time.Second,
		},
	}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 3
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// doRequest sends req exactly once through the circuit breaker. Only
// transport-level errors count against the breaker; any HTTP response,
// whatever its status, is handed back to the caller.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		return client.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// redactURL hides credential query parameters so the URL can be logged.
func redactURL(u *url.URL, keys ...string) string {
	if u == nil {
		return ""
	}
	c := *u
	values := c.Query()
	for _, k := range keys {
		if values.Has(k) {
			values.Set(k, "REDACTED")
		}
	}
	c.RawQuery = values.Encode()
	return c.String()
}
