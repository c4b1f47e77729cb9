package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgallion1/sententia/internal/morph"
)

// Client queries a dictionary service over HTTP:
// GET {base}/lookup?word=<form> answers {"word": ..., "parses": [...]}
// and 404 for an unknown word.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	stats      *Stats
}

// NewClient creates a client. apiKey may be empty; stats may be nil.
func NewClient(baseURL, apiKey string, stats *Stats) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		stats: stats,
	}
}

type lookupResponse struct {
	Word   string                 `json:"word"`
	Parses []morph.CandidateParse `json:"parses"`
}

func (c *Client) Lookup(ctx context.Context, word string) ([]morph.CandidateParse, error) {
	start := time.Now()
	ps, err := c.lookup(ctx, word)
	if c.stats != nil {
		c.stats.Record(time.Since(start).Milliseconds(), outcomeOf(ps, err))
	}
	return ps, err
}

func (c *Client) lookup(ctx context.Context, word string) ([]morph.CandidateParse, error) {
	u := c.baseURL + "/lookup?word=" + url.QueryEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", word, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("lookup %q: status %d: %s", word, resp.StatusCode, truncate(string(body), 200))
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode lookup %q: %w", word, err)
	}
	return ValidateParses(out.Parses), nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
