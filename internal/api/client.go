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

	"github.com/google/uuid"
)

const maxBodyBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	SearchPath string
	HealthPath string
	Timeout    time.Duration
	UserAgent  string
}

// Client talks to the news analysis service.
type Client struct {
	client     *http.Client
	base       *url.URL
	searchPath string
	healthPath string
	userAgent  string
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if opts.SearchPath == "" {
		opts.SearchPath = "/api/v1/search"
	}
	if opts.HealthPath == "" {
		opts.HealthPath = "/health"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Client{
		client:     &http.Client{Timeout: opts.Timeout},
		base:       base,
		searchPath: opts.SearchPath,
		healthPath: opts.HealthPath,
		userAgent:  opts.UserAgent,
	}, nil
}

// Endpoint returns the absolute search URL.
func (c *Client) Endpoint() string {
	return c.resolve(c.searchPath, nil)
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) resolve(path string, query url.Values) string {
	ref := &url.URL{Path: path}
	if query != nil {
		ref.RawQuery = query.Encode()
	}
	if c.base.Path != "" && c.base.Path != "/" {
		ref.Path = strings.TrimSuffix(c.base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	return c.base.ResolveReference(ref).String()
}

// Search posts q to the search endpoint. Returned errors are always one of
// *NetworkError, *ServiceError or *MalformedResponseError.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResponse, error) {
	payload, err := json.Marshal(searchRequest{
		Query:          q.Text,
		MaxArticles:    q.MaxArticles,
		TimeRange:      q.TimeRange,
		IncludeSources: q.IncludeSources,
		ExcludeSources: q.ExcludeSources,
	})
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, body)
	}

	return decodeSearch(body)
}

// Health fetches the service health document. When external is set the
// detailed endpoint is queried for upstream service status as well.
func (c *Client) Health(ctx context.Context, external bool) (*Health, error) {
	target := c.resolve(c.healthPath, nil)
	if external {
		target = c.resolve(strings.TrimSuffix(c.searchPath, "/search")+"/health",
			url.Values{"include_external": []string{"true"}})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceError(resp.StatusCode, body)
	}

	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, &MalformedResponseError{Reason: "health body is not JSON", Err: err}
	}
	if h.Status == "" {
		return nil, &MalformedResponseError{Reason: "health body has no status"}
	}
	return &h, nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func serviceError(status int, body []byte) *ServiceError {
	se := &ServiceError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		se.Kind = eb.Error
		se.Message = strings.TrimSpace(eb.Message)
	}
	if se.Message == "" {
		se.Message = FallbackMessage
	}
	return se
}

var requiredSearchFields = []string{"summary", "key_insights", "articles_processed", "analysis_confidence"}

func decodeSearch(body []byte) (*SearchResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &MalformedResponseError{Reason: "body is not a JSON object", Err: err}
	}
	for _, name := range requiredSearchFields {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, &MalformedResponseError{Reason: "missing field " + name}
		}
	}

	var out SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &MalformedResponseError{Reason: "unexpected field types", Err: err}
	}
	return &out, nil
}
