package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// BreakerConfig controls when repeated upstream failures stop outbound calls.
type BreakerConfig struct {
	// ConsecutiveFailures opens the circuit; 0 keeps the gobreaker default of 5.
	ConsecutiveFailures uint32
	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration
}

// HTTPClientConfig holds the HTTP client shared by fetchers.
type HTTPClientConfig struct {
	Client *resty.Client
}

var (
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.Timeout,
	}
	if cfg.ConsecutiveFailures > 0 {
		limit := cfg.ConsecutiveFailures
		settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		}
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// doGet performs a single GET through the circuit breaker and classifies the
// outcome. 404 passes through the breaker as a success so that dates the
// upstream has not published yet never open the circuit.
func doGet(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, url string) ([]byte, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: %v", epidemic.ErrTransport, errNoHTTPClient)
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.R().SetContext(ctx).Get(url)
		if execErr != nil {
			return nil, execErr
		}

		code := resp.StatusCode()
		switch {
		case code == http.StatusNotFound:
			return resp, nil
		case code >= 500:
			return nil, fmt.Errorf("%w: %d", errServerError, code)
		case code < 200 || code >= 300:
			return nil, fmt.Errorf("%w: %d", errUnexpected, code)
		}
		return resp, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", epidemic.ErrTransport, errCircuitOpen, err)
		}
		return nil, fmt.Errorf("%w: %w", epidemic.ErrTransport, err)
	}

	resp, ok := result.(*resty.Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", epidemic.ErrTransport)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, epidemic.ErrNotFound
	}
	return resp.Body(), nil
}
