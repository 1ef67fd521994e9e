// Package api is a small client for the articles search API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pders01/ntsearch/internal/config"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrInvalidResponse  = errors.New("invalid response body")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient builds a client from validated API settings. BaseURL is
// expected to end in "/".
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SearchArticles fetches one page of articles matching params.
func (c *Client) SearchArticles(ctx context.Context, params url.Values) (*ArticlePage, error) {
	body, err := c.get(ctx, "articles/", params)
	if err != nil {
		return nil, err
	}

	if err := validatePage(body); err != nil {
		return nil, err
	}

	var page ArticlePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if page.Results == nil {
		page.Results = []Article{}
	}
	return &page, nil
}

// ListTags fetches all known tag labels. The endpoint may answer with a
// bare array or with a {"results": [...]} envelope.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	body, err := c.get(ctx, "tags/", nil)
	if err != nil {
		return nil, err
	}

	var tags []Tag
	if err := json.Unmarshal(body, &tags); err == nil {
		return tags, nil
	}

	var envelope struct {
		Results []Tag `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return envelope.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	target := c.baseURL + path
	if enc := params.Encode(); enc != "" {
		target += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: target}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return body, nil
}
