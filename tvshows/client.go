package tvshows

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

// DefaultBaseURL is the address of a locally running backend
const DefaultBaseURL = "http://localhost:3000"

const (
	showsPath        = "/api/v1/tv_shows"
	distributorsPath = "/api/v1/distributors"
	episodeStatsPath = "/api/v1/analytics/episode_stats"
	healthPath       = "/health"

	// DistributorsCollectionKey is the envelope field for distributor lists
	DistributorsCollectionKey = "distributors"
)

// Client talks to the TV show backend. It is immutable after construction
// and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	debug      bool

	shows        Normalizer
	distributors Normalizer
}

// NewClient creates a new TV show API client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrInvalidConfig, baseURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: base URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, baseURL)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.transport
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	// Diagnostics are only wired in debug mode
	traceLogger := zerolog.Nop()
	if o.debug {
		observer := o.observer
		if observer == nil {
			observer = NewLogObserver(logger)
		}
		transport = newObservingTransport(transport, observer)
		traceLogger = logger
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: transport,
		},
		debug:        o.debug,
		shows:        NewNormalizer(ShowsCollectionKey, traceLogger),
		distributors: NewNormalizer(DistributorsCollectionKey, traceLogger),
	}, nil
}

// BaseURL returns the backend address the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Debug reports whether request observations are enabled
func (c *Client) Debug() bool {
	return c.debug
}

// doRequest performs an HTTP request against the backend. Every error it
// returns is an *ErrorReport.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, payload any) (*Response, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, unexpected(method, requestURL, fmt.Errorf("failed to encode request body: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, unexpected(method, requestURL, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Classify(method, requestURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(method, requestURL, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, Classify(method, requestURL, &APIError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
		})
	}

	return &Response{
		Method:     method,
		URL:        requestURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// unexpected builds a report for failures that happen before a request is sent
func unexpected(method, requestURL string, err error) *ErrorReport {
	return &ErrorReport{
		Kind:    KindUnexpectedShape,
		Message: err.Error(),
		Method:  method,
		URL:     requestURL,
		Err:     err,
	}
}

// showPath returns the item endpoint for id
func (c *Client) showPath(method, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", unexpected(method, c.baseURL+showsPath+"/", ErrMissingID)
	}
	return showsPath + "/" + url.PathEscape(id), nil
}

// ListShows retrieves the show collection. params are sent as the query string.
func (c *Client) ListShows(ctx context.Context, params map[string]string) (*Response, error) {
	var query url.Values
	if len(params) > 0 {
		query = make(url.Values, len(params))
		for key, value := range params {
			query.Set(key, value)
		}
	}
	return c.doRequest(ctx, http.MethodGet, showsPath, query, nil)
}

// GetShow retrieves a single show
func (c *Client) GetShow(ctx context.Context, id string) (*Response, error) {
	endpoint, err := c.showPath(http.MethodGet, id)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodGet, endpoint, nil, nil)
}

// CreateShow creates a show. data is sent wrapped as {"tv_show": data}.
func (c *Client) CreateShow(ctx context.Context, data any) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, showsPath, nil, showEnvelope{TVShow: data})
}

// UpdateShow replaces the attributes of a show with the same envelope as CreateShow
func (c *Client) UpdateShow(ctx context.Context, id string, data any) (*Response, error) {
	endpoint, err := c.showPath(http.MethodPut, id)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPut, endpoint, nil, showEnvelope{TVShow: data})
}

// DeleteShow deletes a show
func (c *Client) DeleteShow(ctx context.Context, id string) (*Response, error) {
	endpoint, err := c.showPath(http.MethodDelete, id)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ListDistributors retrieves the distributor collection
func (c *Client) ListDistributors(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, distributorsPath, nil, nil)
}

// EpisodeStats retrieves aggregate episode statistics
func (c *Client) EpisodeStats(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, episodeStatsPath, nil, nil)
}

// HealthCheck probes the backend liveness endpoint
func (c *Client) HealthCheck(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, healthPath, nil, nil)
}

// Shows lists shows and normalizes the response into raw records.
// An empty result means the backend answered without any records.
func (c *Client) Shows(ctx context.Context, params map[string]string) ([]json.RawMessage, error) {
	resp, err := c.ListShows(ctx, params)
	if err != nil {
		return nil, err
	}
	return c.shows.Normalize(resp.Body), nil
}

// Distributors lists distributors and normalizes the response into raw records
func (c *Client) Distributors(ctx context.Context) ([]json.RawMessage, error) {
	resp, err := c.ListDistributors(ctx)
	if err != nil {
		return nil, err
	}
	return c.distributors.Normalize(resp.Body), nil
}
