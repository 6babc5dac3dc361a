package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// DefaultBaseURL is where the CSSE daily report CSVs are published.
const DefaultBaseURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_daily_reports"

// CSSE fetches the daily reports of the JHU CSSE COVID-19 repository.
// It makes exactly one attempt per call.
type CSSE struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ epidemic.Fetcher = (*CSSE)(nil)

// NewCSSE builds the fetcher. An empty baseURL selects DefaultBaseURL.
func NewCSSE(client *resty.Client, baseURL string, breaker BreakerConfig) *CSSE {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if breaker.Timeout <= 0 {
		breaker.Timeout = 2 * time.Minute
	}

	return &CSSE{
		name:    "csse",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newBreaker("csse", breaker),
	}
}

// NewRestyClient returns the resty client shared by fetchers.
func NewRestyClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return client
}

// URL is the locator of the report for date: <base>/<mm-dd-yyyy>.csv.
func (c *CSSE) URL(date dates.Date) string {
	return fmt.Sprintf("%s/%s.csv", c.baseURL, date.Upstream())
}

// Fetch downloads the report for date.
func (c *CSSE) Fetch(ctx context.Context, date dates.Date) ([]byte, error) {
	body, err := doGet(ctx, c.httpCfg, c.circuit, c.URL(date))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, date, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%s %s: %w", c.name, date, epidemic.ErrEmptyPayload)
	}
	return body, nil
}
