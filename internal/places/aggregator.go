package places

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/metrics"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/tagging"
	"github.com/johnrirwin/yatra/internal/textutil"
)

// Aggregator queries every provider concurrently and merges their results.
// Provider order is priority order: when two providers return the same place,
// the earlier provider's copy wins and its results are listed first.
type Aggregator struct {
	providers []Provider
	tagger    *tagging.Tagger
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

func NewAggregator(providers []Provider, tagger *tagging.Tagger, m *metrics.Metrics, logger *logging.Logger) *Aggregator {
	if tagger == nil {
		tagger = tagging.New()
	}
	return &Aggregator{
		providers: providers,
		tagger:    tagger,
		metrics:   m,
		logger:    logger,
	}
}

// Search succeeds if at least one provider succeeds. Failed providers are
// logged and skipped.
func (a *Aggregator) Search(ctx context.Context, q models.PlaceQuery) (*models.PlaceSearchResult, error) {
	if len(a.providers) == 0 {
		return nil, ErrNoProviders
	}

	results := make([]models.ProviderResult, len(a.providers))
	var wg sync.WaitGroup
	for i, provider := range a.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			start := time.Now()
			places, err := p.Search(ctx, q)
			results[i] = models.ProviderResult{
				Places:   places,
				Source:   p.SourceInfo(),
				Duration: time.Since(start),
				Error:    err,
			}
		}(i, provider)
	}
	wg.Wait()

	var errs []error
	merged := make([]models.Place, 0)
	succeeded := 0
	for _, result := range results {
		a.metrics.ObserveUpstream(result.Source.Name, result.Duration, result.Error)

		if result.Error != nil {
			a.logger.Warn("Failed to search place provider", logging.WithFields(map[string]interface{}{
				"provider": result.Source.Name,
				"error":    result.Error.Error(),
			}))
			errs = append(errs, fmt.Errorf("%s: %w", result.Source.Name, result.Error))
			continue
		}
		succeeded++

		a.logger.Debug("Fetched places from provider", logging.WithFields(map[string]interface{}{
			"provider": result.Source.Name,
			"count":    len(result.Places),
			"duration": result.Duration.String(),
		}))

		places := append([]models.Place(nil), result.Places...)
		sortByPosition(places)
		for i := range places {
			if places[i].Source == "" {
				places[i].Source = result.Source.Name
			}
			inferred := a.tagger.InferTags(places[i].Title, places[i].Type)
			places[i].Tags = mergeTags(places[i].Tags, inferred)
		}
		merged = append(merged, places...)
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
	}

	merged = deduplicate(merged)
	for i := range merged {
		merged[i].Position = i + 1
	}

	return &models.PlaceSearchResult{Places: merged}, nil
}

// Sources describes the configured providers.
func (a *Aggregator) Sources() []models.SourceInfo {
	info := make([]models.SourceInfo, 0, len(a.providers))
	for _, p := range a.providers {
		info = append(info, p.SourceInfo())
	}
	return info
}

func deduplicate(places []models.Place) []models.Place {
	seenIDs := make(map[string]bool)
	seenTitles := make(map[string]bool)
	result := make([]models.Place, 0, len(places))

	for _, place := range places {
		if place.PlaceID != "" && seenIDs[place.PlaceID] {
			continue
		}
		title := textutil.Fold(place.Title)
		if title != "" && seenTitles[title] {
			continue
		}

		if place.PlaceID != "" {
			seenIDs[place.PlaceID] = true
		}
		if title != "" {
			seenTitles[title] = true
		}
		result = append(result, place)
	}

	return result
}

// sortByPosition orders by provider position; unranked places go last,
// best rated first.
func sortByPosition(places []models.Place) {
	sort.SliceStable(places, func(i, j int) bool {
		pi, pj := places[i].Position, places[j].Position
		switch {
		case pi > 0 && pj > 0:
			return pi < pj
		case pi > 0:
			return true
		case pj > 0:
			return false
		default:
			return places[i].Rating > places[j].Rating
		}
	})
}

func mergeTags(existing, inferred []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(existing)+len(inferred))

	for _, tags := range [][]string{existing, inferred} {
		for _, tag := range tags {
			lower := strings.ToLower(tag)
			if !seen[lower] {
				seen[lower] = true
				result = append(result, tag)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
