// Package store provides an HTTP client for the transactional records store,
// a Supabase-style REST interface over the sales and expenses tables.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/insightloop/bizquery/internal/errors"
	"github.com/insightloop/bizquery/internal/observability"
)

const restPath = "/rest/v1/"

// Row is one loosely-typed transactional record as returned by the store
type Row map[string]interface{}

// Client is an HTTP client for the records store
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates a new store client. Credentials are validated per call,
// not here, so a misconfigured deployment still starts and fails request by
// request (where the demo posture can mask the failure).
func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		anonKey: strings.TrimSpace(anonKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// checkCredentials validates the connection settings before any request
func (c *Client) checkCredentials() error {
	if !strings.HasPrefix(c.baseURL, "http") {
		return errors.NewStoreMisconfiguredError("SUPABASE_URL")
	}
	if c.anonKey == "" {
		return errors.NewStoreMisconfiguredError("SUPABASE_ANON_KEY")
	}
	return nil
}

// SelectSince fetches all rows from the given table whose date column is on
// or after the floor date. A non-2xx response is an error; an empty result
// set is not.
func (c *Client) SelectSince(ctx context.Context, table string, floor time.Time) ([]Row, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("select", "*")
	params.Set("date", "gte."+floor.Format("2006-01-02"))

	reqURL := c.baseURL + restPath + table + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.NewStoreQueryError(err, table)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.RecordStoreMetrics(table, time.Since(start), err)
	if err != nil {
		return nil, errors.NewStoreQueryError(err, table)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewStoreQueryError(err, table)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStoreQueryError(
			fmt.Errorf("store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			table,
		)
	}

	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.NewStoreQueryError(fmt.Errorf("malformed store response: %w", err), table)
	}

	return rows, nil
}

// Ping checks whether the store endpoint is reachable. Used by the health
// checker only; query failures carry their own errors.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.checkCredentials(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
