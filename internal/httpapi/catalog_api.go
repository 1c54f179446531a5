package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/johnrirwin/yatra/internal/catalog"
	"github.com/johnrirwin/yatra/internal/locations"
	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
)

// CatalogAPI handles the stay, transport and location listings
type CatalogAPI struct {
	catalogSvc *catalog.Service
	logger     *logging.Logger
}

func NewCatalogAPI(catalogSvc *catalog.Service, logger *logging.Logger) *CatalogAPI {
	return &CatalogAPI{catalogSvc: catalogSvc, logger: logger}
}

func (api *CatalogAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/accommodations", corsMiddleware(api.handleAccommodations))
	mux.HandleFunc("/api/transport/buses", corsMiddleware(api.handleBuses))
	mux.HandleFunc("/api/transport/trains", corsMiddleware(api.handleTrains))
	mux.HandleFunc("/api/transport/cabs", corsMiddleware(api.handleCabs))
	mux.HandleFunc("/api/transport/book", corsMiddleware(api.handleBook))
	mux.HandleFunc("/api/locations/states", corsMiddleware(api.handleStates))
	mux.HandleFunc("/api/locations/cities", corsMiddleware(api.handleCities))
}

// handleAccommodations handles GET /api/accommodations?kind=&location=&sort=
func (api *CatalogAPI) handleAccommodations(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	items, err := api.catalogSvc.Accommodations(models.CatalogFilter{
		Kind:     models.AccommodationKind(query.Get("kind")),
		Location: query.Get("location"),
	}, query.Get("sort"))
	if err != nil {
		var svcErr *catalog.ServiceError
		if errors.As(err, &svcErr) {
			writeError(w, http.StatusBadRequest, svcErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accommodations": items,
		"total":          len(items),
	})
}

// handleBuses handles GET /api/transport/buses?from=&to=
func (api *CatalogAPI) handleBuses(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	query := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"buses": api.catalogSvc.Buses(models.CatalogFilter{From: query.Get("from"), To: query.Get("to")}),
	})
}

// handleTrains handles GET /api/transport/trains?from=&to=
func (api *CatalogAPI) handleTrains(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	query := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trains": api.catalogSvc.Trains(models.CatalogFilter{From: query.Get("from"), To: query.Get("to")}),
	})
}

// handleCabs handles GET /api/transport/cabs?location=&verified=true
func (api *CatalogAPI) handleCabs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	verifiedOnly := false
	if v := query.Get("verified"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		verifiedOnly = parsed
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cabs": api.catalogSvc.Cabs(models.CatalogFilter{Location: query.Get("location"), VerifiedOnly: verifiedOnly}),
	})
}

// handleBook handles POST /api/transport/book {service, details}
func (api *CatalogAPI) handleBook(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req models.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	booking, err := api.catalogSvc.Book(req)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		api.logger.Error("Booking failed", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// handleStates handles GET /api/locations/states
func (api *CatalogAPI) handleStates(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"states": locations.States(),
	})
}

// handleCities handles GET /api/locations/cities?state=
func (api *CatalogAPI) handleCities(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	cities := locations.Cities(r.URL.Query().Get("state"))
	labels := make([]string, 0, len(cities))
	for _, c := range cities {
		labels = append(labels, c.Label())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cities": cities,
		"labels": labels,
	})
}
