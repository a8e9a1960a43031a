// Package ledger registers wallet seeds with a development ledger's
// /register endpoint.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each registration request.
const DefaultTimeout = 30 * time.Second

// localLedgerPort is where the development ledger publishes its web
// server on the Docker host.
const localLedgerPort = "9000"

// RegisterURL returns the registration endpoint for ledgerURL. The
// default ledger address points at the Docker host as seen from
// containers; from the host itself it is reached on localhost.
func RegisterURL(ledgerURL, dockerHost string) string {
	if ledgerURL == "http://"+dockerHost+":"+localLedgerPort {
		return "http://localhost:" + localLedgerPort + "/register"
	}
	return strings.TrimSuffix(ledgerURL, "/") + "/register"
}

// Body returns the request payload for seed: {"seed": "<seed>"}.
func Body(seed string) []byte {
	quoted, _ := json.Marshal(seed)
	return []byte(`{"seed": ` + string(quoted) + `}`)
}

// Registration is the outcome for one seed.
type Registration struct {
	Seed       string `json:"seed"`
	StatusCode int    `json:"status,omitempty"`
	DID        string `json:"did,omitempty"`
	Verkey     string `json:"verkey,omitempty"`
	Err        error  `json:"-"`
}

// OK reports whether the ledger accepted the seed.
func (r Registration) OK() bool {
	return r.Err == nil
}

// Client posts seeds to a registration endpoint.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient returns a Client for url with DefaultTimeout.
func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Register posts every seed in order, one request each, and returns one
// Registration per seed. A failed seed does not stop the others.
func (c *Client) Register(ctx context.Context, seeds []string) []Registration {
	out := make([]Registration, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, c.registerOne(ctx, seed))
	}
	return out
}

type registerResponse struct {
	DID    string `json:"did"`
	Verkey string `json:"verkey"`
}

func (c *Client) registerOne(ctx context.Context, seed string) Registration {
	reg := Registration{Seed: seed}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(Body(seed)))
	if err != nil {
		reg.Err = fmt.Errorf("failed to create request: %w", err)
		return reg
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		reg.Err = fmt.Errorf("request failed: %w", err)
		return reg
	}
	defer func() { _ = resp.Body.Close() }()

	reg.StatusCode = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		reg.Err = fmt.Errorf("failed to read response body: %w", err)
		return reg
	}

	if resp.StatusCode >= 400 {
		reg.Err = fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return reg
	}

	// Older ledgers answer with plain text; only a JSON body carries a DID.
	var parsed registerResponse
	if json.Unmarshal(body, &parsed) == nil {
		reg.DID = parsed.DID
		reg.Verkey = parsed.Verkey
	}
	return reg
}

// Failed returns the registrations that did not succeed.
func Failed(regs []Registration) []Registration {
	var out []Registration
	for _, r := range regs {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
