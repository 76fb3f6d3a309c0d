package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

type ExchangeRateClient struct {
	http    *http.Client
	baseURL string
}

// apiResponse covers both the keyed (conversion_rates) and the open (rates)
// flavours of the exchangerate-api v6 payload.
type apiResponse struct {
	Result          string                     `json:"result"`
	BaseCode        string                     `json:"base_code"`
	Rates           map[string]decimal.Decimal `json:"rates"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

func (c *ExchangeRateClient) GetExchangeRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + base

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for currency %q: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d for currency %q: %s", resp.StatusCode, base, resp.Status)
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response for currency %q: %w", base, err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("api returned non-success result for currency %q: %s", base, body.Result)
	}
	if body.BaseCode != "" && !strings.EqualFold(body.BaseCode, base) {
		return nil, fmt.Errorf("api returned rates for %q instead of %q", body.BaseCode, base)
	}

	rates := body.ConversionRates
	if len(rates) == 0 {
		rates = body.Rates
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("api returned no rates for currency %q", base)
	}
	return rates, nil
}

func NewExchangeRateClient(httpClient *http.Client, baseURL string) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, baseURL: baseURL}
}
