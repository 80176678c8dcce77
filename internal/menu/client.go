// Package menu reads menu items from the catalog service over HTTP.
package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 3 * time.Second

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    domain.MenuItem `json:"data"`
}

// Client implements the order service's menu lookup against
// GET {baseURL}/api/menu/{id}.
type Client struct {
	http    *resty.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0). // the circuit breaker decides about retries
			SetHeader("Accept", "application/json"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.baseURL + "/api/menu/" + url.PathEscape(id))
	if err != nil {
		return nil, domain.Unavailable("menu catalog", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, domain.ErrMenuItemNotFound
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: menu catalog returned status %d", domain.ErrUnavailable, resp.StatusCode())
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("menu catalog returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var body envelope
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse menu item: %w", err)
	}
	if !body.Success || body.Data.ID == "" {
		return nil, domain.ErrMenuItemNotFound
	}
	return &body.Data, nil
}
