package geocode

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for geocoding operations.
var (
	ErrNoResult    = errors.New("geocode: no result for query")
	ErrRateLimited = errors.New("geocode: rate limited by server")
	ErrServer      = errors.New("geocode: server error")
)

// Location is a geographic point in decimal degrees.
type Location struct {
	Lat float64
	Lon float64
}

// Provider resolves a free-text place query to coordinates.
type Provider interface {
	// Lookup returns the best match for the query, or ErrNoResult
	// when the provider finds nothing.
	Lookup(ctx context.Context, query string) (Location, error)
}

// Error wraps an underlying error with the query that produced it.
type Error struct {
	Op    string // Operation: "lookup"
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocode %s [%s]: %v", e.Op, e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, query string, err error) error {
	return &Error{Op: op, Query: query, Err: err}
}
