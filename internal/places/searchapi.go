package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/johnrirwin/yatra/internal/locations"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/textutil"
)

const (
	DefaultSearchAPIURL = "https://www.searchapi.io/api/v1/search"

	searchAPIName      = "searchapi"
	maxErrorBodyLength = 512
	maxResponseBytes   = 4 << 20
)

// SearchAPIConfig configures the SearchAPI.io google_maps engine client.
type SearchAPIConfig struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	HTTPClient     *http.Client
}

// SearchAPIProvider queries SearchAPI.io. Outbound calls are paced by a token
// bucket so a burst of cache misses cannot exhaust the API quota.
type SearchAPIProvider struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

func NewSearchAPIProvider(cfg SearchAPIConfig) *SearchAPIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSearchAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &SearchAPIProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		client:  cfg.HTTPClient,
		limiter: rate.NewLimiter(limit, cfg.Burst),
	}
}

func (p *SearchAPIProvider) SourceInfo() models.SourceInfo {
	return models.SourceInfo{
		Name:        searchAPIName,
		Description: "Google Maps results via SearchAPI.io",
		Enabled:     p.apiKey != "",
	}
}

type searchAPIResponse struct {
	LocalResults []searchAPIPlace `json:"local_results"`
	Error        string           `json:"error"`
}

type searchAPIPlace struct {
	Position       int                    `json:"position"`
	Title          string                 `json:"title"`
	Address        string                 `json:"address"`
	Rating         float64                `json:"rating"`
	Reviews        int                    `json:"reviews"`
	Type           string                 `json:"type"`
	Thumbnail      string                 `json:"thumbnail"`
	PlaceID        string                 `json:"place_id"`
	GPSCoordinates *models.GPSCoordinates `json:"gps_coordinates"`
}

// Search runs a google_maps query. Known cities are searched around their
// coordinates; anything else is folded into the query text.
func (p *SearchAPIProvider) Search(ctx context.Context, q models.PlaceQuery) ([]models.Place, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("searchapi: waiting for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("searchapi: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searchapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return nil, &UpstreamError{Provider: searchAPIName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded searchAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("searchapi: failed to decode response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("searchapi: %s", decoded.Error)
	}

	places := make([]models.Place, 0, len(decoded.LocalResults))
	for _, r := range decoded.LocalResults {
		places = append(places, models.Place{
			Position:       r.Position,
			Title:          textutil.StripHTML(r.Title),
			Address:        textutil.StripHTML(r.Address),
			Rating:         r.Rating,
			Reviews:        r.Reviews,
			Type:           textutil.StripHTML(r.Type),
			Thumbnail:      r.Thumbnail,
			PlaceID:        r.PlaceID,
			GPSCoordinates: r.GPSCoordinates,
			Source:         searchAPIName,
		})
	}
	return places, nil
}

func (p *SearchAPIProvider) requestURL(q models.PlaceQuery) string {
	params := url.Values{}
	params.Set("engine", "google_maps")
	if city, ok := locations.Lookup(q.Location); ok {
		params.Set("q", q.Query)
		params.Set("ll", "@"+formatCoord(city.Latitude)+","+formatCoord(city.Longitude)+",12z")
	} else {
		params.Set("q", q.Query+" in "+q.Location)
	}
	params.Set("api_key", p.apiKey)
	return p.baseURL + "?" + params.Encode()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
