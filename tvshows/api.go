package tvshows

import (
	"context"
	"encoding/json"
)

// API defines the interface for TV show backend operations
type API interface {
	// ListShows retrieves the show collection with optional query parameters
	ListShows(ctx context.Context, params map[string]string) (*Response, error)

	// GetShow retrieves a single show
	GetShow(ctx context.Context, id string) (*Response, error)

	// CreateShow creates a show from data
	CreateShow(ctx context.Context, data any) (*Response, error)

	// UpdateShow updates a show from data
	UpdateShow(ctx context.Context, id string, data any) (*Response, error)

	// DeleteShow deletes a show
	DeleteShow(ctx context.Context, id string) (*Response, error)

	// HealthCheck probes backend liveness
	HealthCheck(ctx context.Context) (*Response, error)

	ListDistributors(ctx context.Context) (*Response, error)
	EpisodeStats(ctx context.Context) (*Response, error)
}

// Catalog provides normalized views over list endpoints
type Catalog interface {
	// Shows returns the show records found in the list response
	Shows(ctx context.Context, params map[string]string) ([]json.RawMessage, error)

	// Distributors returns the distributor records found in the list response
	Distributors(ctx context.Context) ([]json.RawMessage, error)
}

var (
	_ API     = (*Client)(nil)
	_ Catalog = (*Client)(nil)
)
