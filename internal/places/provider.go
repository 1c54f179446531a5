// Package places searches for places to visit across one or more providers.
package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnrirwin/yatra/internal/models"
)

var (
	// ErrNoProviders is returned when an Aggregator has nothing to query.
	ErrNoProviders = errors.New("no place providers configured")
	// ErrAllProvidersFailed wraps the individual provider errors when no
	// provider produced a result.
	ErrAllProvidersFailed = errors.New("all place providers failed")
	// ErrMissingAPIKey is returned by SearchAPIProvider without credentials.
	ErrMissingAPIKey = errors.New("search API key is not set")
)

// Provider is a source of place results.
type Provider interface {
	SourceInfo() models.SourceInfo
	Search(ctx context.Context, q models.PlaceQuery) ([]models.Place, error)
}

// UpstreamError is a non-2xx response from a provider's API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: API call failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}
