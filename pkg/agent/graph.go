package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "http://localhost:2024"

// Option configures the graph client.
type Option func(*graphClient)

// WithBaseURL overrides the default graph endpoint.
func WithBaseURL(url string) Option {
	return func(c *graphClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *graphClient) {
		c.http = hc
	}
}

// graphClient invokes a deployed research graph over HTTP.
type graphClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewGraphClient creates an Invoker backed by an HTTP research-graph
// endpoint exposing POST /invoke.
func NewGraphClient(apiKey string, opts ...Option) Invoker {
	c := &graphClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			// Comprehensive runs take minutes; leave ample room and let the
			// caller context cut it short.
			Timeout: 15 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *graphClient) Invoke(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "agent: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "agent: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "agent: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "agent: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("agent: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result Response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "agent: unmarshal response")
	}

	return &result, nil
}
