package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/ratelimit"
)

type exploreService interface {
	Allow(clientKey string) bool
	RetryAfter(clientKey string) time.Duration
	Search(ctx context.Context, q models.PlaceQuery) (*models.PlaceSearchResult, bool, error)
}

type sourceLister interface {
	Sources() []models.SourceInfo
}

// ExploreAPI handles place search endpoints
type ExploreAPI struct {
	explore exploreService
	sources sourceLister
	keys    *ratelimit.KeyResolver
	logger  *logging.Logger
}

func NewExploreAPI(explore exploreService, sources sourceLister, keys *ratelimit.KeyResolver, logger *logging.Logger) *ExploreAPI {
	return &ExploreAPI{
		explore: explore,
		sources: sources,
		keys:    keys,
		logger:  logger,
	}
}

func (api *ExploreAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/explore", corsMiddleware(api.handleExplore))
	mux.HandleFunc("/api/explore/sources", corsMiddleware(api.handleSources))
}

// handleExplore handles POST /api/explore {query, location}.
// The rate limit is charged before the body is read.
func (api *ExploreAPI) handleExplore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	clientKey := api.keys.ClientKey(r)
	if !api.explore.Allow(clientKey) {
		setRetryAfter(w, api.explore.RetryAfter(clientKey))
		writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
		return
	}

	var q models.PlaceQuery
	if err := decodeJSON(w, r, &q); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	result, hit, err := api.explore.Search(r.Context(), q)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	if hit {
		w.Header().Set("x-cache", "HIT")
	} else {
		w.Header().Set("x-cache", "MISS")
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSources handles GET /api/explore/sources
func (api *ExploreAPI) handleSources(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sources": api.sources.Sources(),
	})
}
