package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// HTTPClient is the slice of *http.Client the transport needs; tests swap in
// a canned implementation.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL    string
	Prefix     string
	Timeout    time.Duration
	HTTPClient HTTPClient
	Logger     zerolog.Logger
}

// Client issues JSON requests against the backend's versioned REST API.
type Client struct {
	baseURL string
	prefix  string
	http    HTTPClient
	log     zerolog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		prefix:  "/" + strings.Trim(prefix, "/"),
		http:    httpClient,
		log:     cfg.Logger,
	}, nil
}

// Response is a decoded-later HTTP outcome: status code plus raw body. Body
// is nil for empty responses.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) Empty() bool {
	if len(r.Body) == 0 {
		return true
	}
	trimmed := strings.TrimSpace(string(r.Body))
	return trimmed == "" || trimmed == "null" || trimmed == "{}"
}

// Do sends one JSON request. path is relative to the versioned prefix, query
// may be nil, body (when non-nil) is JSON-encoded. Transport-level failures
// come back as *TransportError so repositories can map them uniformly.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	reqURL := c.baseURL + c.prefix + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: "encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return nil, &TransportError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

// DecodeInto unmarshals a response body. Unknown fields are tolerated and
// missing fields take their zero values, matching the backend's
// forward-compatibility contract.
func DecodeInto(resp *Response, out any) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &TransportError{Op: "decode response", Err: err}
	}
	return nil
}
