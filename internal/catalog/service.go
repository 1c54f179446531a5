// Package catalog serves the built-in listings for stays and local transport.
package catalog

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/textutil"
)

// Service filters the static catalog and confirms transport bookings. The
// listings are read-only; only booking id issue is synchronized.
type Service struct {
	logger *logging.Logger
	now    func() time.Time

	mu          sync.Mutex
	lastBooking int64
}

// ServiceError represents a catalog request the caller got wrong.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewService(logger *logging.Logger) *Service {
	return &Service{logger: logger, now: time.Now}
}

// Accommodations lists stays matching the filter, best rated first.
func (s *Service) Accommodations(filter models.CatalogFilter, sortBy string) ([]models.Accommodation, error) {
	if filter.Kind != "" && !models.IsValidAccommodationKind(filter.Kind) {
		return nil, &ServiceError{Message: "Unknown accommodation kind: " + string(filter.Kind)}
	}

	result := make([]models.Accommodation, 0, len(accommodations))
	for _, a := range accommodations {
		if filter.Kind != "" && a.Kind != filter.Kind {
			continue
		}
		if !matchesCity(a.Location, filter.Location) {
			continue
		}
		result = append(result, a)
	}

	sortAccommodations(result, sortBy)
	s.logger.Debug("Listed accommodations", logging.WithFields(map[string]interface{}{
		"kind":     string(filter.Kind),
		"location": filter.Location,
		"count":    len(result),
	}))
	return result, nil
}

// Buses lists bus routes whose endpoints contain the requested places.
func (s *Service) Buses(filter models.CatalogFilter) []models.BusRoute {
	result := make([]models.BusRoute, 0, len(buses))
	for _, b := range buses {
		if matchesText(b.From, filter.From) && matchesText(b.To, filter.To) {
			result = append(result, b)
		}
	}
	return result
}

// Trains lists train routes whose stations contain the requested places.
func (s *Service) Trains(filter models.CatalogFilter) []models.TrainRoute {
	result := make([]models.TrainRoute, 0, len(trains))
	for _, t := range trains {
		if matchesText(t.From, filter.From) && matchesText(t.To, filter.To) {
			result = append(result, t)
		}
	}
	return result
}

// Cabs lists cab services operating in the requested city.
func (s *Service) Cabs(filter models.CatalogFilter) []models.CabService {
	result := make([]models.CabService, 0, len(cabs))
	for _, c := range cabs {
		if filter.VerifiedOnly && !c.IsVerified {
			continue
		}
		if !matchesCity(c.Location, filter.Location) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// matchesCity compares only the city part of a "City, State" filter, so a
// picker selection matches listings that spell the state differently.
func matchesCity(location, filter string) bool {
	city, _, _ := strings.Cut(filter, ",")
	return matchesText(location, city)
}

func matchesText(value, filter string) bool {
	filter = textutil.Fold(filter)
	if filter == "" {
		return true
	}
	return strings.Contains(textutil.Fold(value), filter)
}

func sortAccommodations(items []models.Accommodation, sortBy string) {
	switch sortBy {
	case "name":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})
	case "rating_asc":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rating < items[j].Rating
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rating > items[j].Rating
		})
	}
}
