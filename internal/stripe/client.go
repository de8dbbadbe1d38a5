// Package stripe provides a minimal read-only client for the payment
// platform's REST API, scoped to the dashboard counters.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.stripe.com"

// listLimit caps counters at one API page. The dashboard shows activity
// volume, not exact totals, so paging through the full history is not worth
// the extra round trips.
const listLimit = 100

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type listResponse struct {
	Data []struct {
		Status string `json:"status"`
	} `json:"data"`
	HasMore bool `json:"has_more"`
}

func (c *Client) list(ctx context.Context, resource string) (*listResponse, error) {
	if c == nil || c.secretKey == "" {
		return nil, fmt.Errorf("stripe client not configured")
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprint(listLimit))

	endpoint := fmt.Sprintf("%s/v1/%s?%s", c.baseURL, resource, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: unexpected status %d", resource, resp.StatusCode)
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}

// CountCustomers returns the number of customers on the most recent page.
func (c *Client) CountCustomers(ctx context.Context) (int, error) {
	resp, err := c.list(ctx, "customers")
	if err != nil {
		return 0, err
	}
	return len(resp.Data), nil
}

// CountCharges returns the number of charges on the most recent page.
func (c *Client) CountCharges(ctx context.Context) (int, error) {
	resp, err := c.list(ctx, "charges")
	if err != nil {
		return 0, err
	}
	return len(resp.Data), nil
}

// CountInvoices returns the number of issued invoices on the most recent
// page. Draft and void invoices don't count as issued.
func (c *Client) CountInvoices(ctx context.Context) (int, error) {
	resp, err := c.list(ctx, "invoices")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, inv := range resp.Data {
		if inv.Status == "draft" || inv.Status == "void" {
			continue
		}
		n++
	}
	return n, nil
}
