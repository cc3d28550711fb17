package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPDirectory calls the user directory service over its internal REST
// API. Email lookups travel in the X-User-Email header, external-id
// lookups as a query parameter, matching the directory's contract.
type HTTPDirectory struct {
	base   string
	client *http.Client
}

func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (d *HTTPDirectory) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.base+"/api/internal/users/info", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-User-Email", email)
	return d.do(req)
}

func (d *HTTPDirectory) AccountByExternalID(ctx context.Context, externalID string) (*Account, error) {
	u := d.base + "/api/internal/users/info-by-external-id?externalId=" + url.QueryEscape(externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return d.do(req)
}

func (d *HTTPDirectory) do(req *http.Request) (*Account, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("directory request: unexpected status %d", resp.StatusCode)
	}

	var acc Account
	if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
		return nil, fmt.Errorf("directory response: %w", err)
	}
	if acc.ID == 0 {
		// Some directory versions answer 200 with an empty body for
		// unknown identities.
		return nil, ErrNotFound
	}
	return &acc, nil
}
