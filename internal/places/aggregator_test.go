package places

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/tagging"
)

type stubProvider struct {
	name   string
	places []models.Place
	err    error
	calls  int
}

func (s *stubProvider) SourceInfo() models.SourceInfo {
	return models.SourceInfo{Name: s.name, Enabled: true}
}

func (s *stubProvider) Search(ctx context.Context, q models.PlaceQuery) ([]models.Place, error) {
	s.calls++
	return s.places, s.err
}

func newTestAggregator(providers ...Provider) *Aggregator {
	return NewAggregator(providers, tagging.New(), nil, logging.New(logging.LevelError))
}

func TestAggregator_MergesInProviderOrder(t *testing.T) {
	primary := &stubProvider{name: "primary", places: []models.Place{
		{Position: 2, Title: "Jal Mahal", PlaceID: "jal"},
		{Position: 1, Title: "Hawa Mahal", PlaceID: "hawa"},
	}}
	secondary := &stubProvider{name: "secondary", places: []models.Place{
		{Title: "hawa  MAHAL"},
		{Title: "Amber Fort", Rating: 4.6},
		{Title: "Johari Bazaar", Rating: 4.8, Type: "Market"},
	}}

	result, err := newTestAggregator(primary, secondary).Search(context.Background(), models.PlaceQuery{Query: "sights", Location: "Jaipur"})
	require.NoError(t, err)

	titles := make([]string, 0, len(result.Places))
	for _, p := range result.Places {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Hawa Mahal", "Jal Mahal", "Johari Bazaar", "Amber Fort"}, titles)

	for i, p := range result.Places {
		assert.Equal(t, i+1, p.Position)
	}
	assert.Equal(t, "primary", result.Places[0].Source)
	assert.Equal(t, "secondary", result.Places[2].Source)
	assert.Equal(t, []string{"Heritage"}, result.Places[0].Tags)
	assert.Equal(t, []string{"Shopping"}, result.Places[2].Tags)
}

func TestAggregator_DeduplicatesByPlaceID(t *testing.T) {
	a := &stubProvider{name: "a", places: []models.Place{{Position: 1, Title: "Taj Mahal", PlaceID: "taj"}}}
	b := &stubProvider{name: "b", places: []models.Place{{Position: 1, Title: "The Taj Mahal", PlaceID: "taj"}}}

	result, err := newTestAggregator(a, b).Search(context.Background(), models.PlaceQuery{Query: "taj", Location: "Agra"})
	require.NoError(t, err)
	require.Len(t, result.Places, 1)
	assert.Equal(t, "Taj Mahal", result.Places[0].Title)
}

func TestAggregator_PartialFailure(t *testing.T) {
	failing := &stubProvider{name: "searchapi", err: errors.New("connection refused")}
	ok := &stubProvider{name: "curated", places: []models.Place{{Title: "Red Fort"}}}

	result, err := newTestAggregator(failing, ok).Search(context.Background(), models.PlaceQuery{Query: "forts", Location: "New Delhi"})
	require.NoError(t, err)
	require.Len(t, result.Places, 1)
	assert.Equal(t, 1, failing.calls)
}

func TestAggregator_AllFail(t *testing.T) {
	a := &stubProvider{name: "a", err: ErrMissingAPIKey}
	b := &stubProvider{name: "b", err: context.DeadlineExceeded}

	_, err := newTestAggregator(a, b).Search(context.Background(), models.PlaceQuery{Query: "forts", Location: "Delhi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAggregator_EmptyResultIsSuccess(t *testing.T) {
	result, err := newTestAggregator(&stubProvider{name: "a"}).Search(context.Background(), models.PlaceQuery{Query: "igloos", Location: "Chennai"})
	require.NoError(t, err)
	assert.NotNil(t, result.Places)
	assert.Empty(t, result.Places)
}

func TestAggregator_NoProviders(t *testing.T) {
	_, err := newTestAggregator().Search(context.Background(), models.PlaceQuery{Query: "forts", Location: "Delhi"})
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestAggregator_Sources(t *testing.T) {
	agg := newTestAggregator(&stubProvider{name: "a"}, NewCuratedProvider(nil))
	sources := agg.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "curated", sources[1].Name)
}

func TestCuratedProvider_Search(t *testing.T) {
	p := NewCuratedProvider(tagging.New())

	tests := []struct {
		name     string
		query    models.PlaceQuery
		expected []string
	}{
		{name: "plural matches type", query: models.PlaceQuery{Query: "Forts", Location: "Jaipur, Rajasthan"}, expected: []string{"Amber Fort"}},
		{name: "tag match", query: models.PlaceQuery{Query: "heritage", Location: "Agra"}, expected: []string{"Taj Mahal", "Agra Fort"}},
		{name: "museums in delhi", query: models.PlaceQuery{Query: "museums", Location: "new delhi, delhi"}, expected: []string{"National Museum"}},
		{name: "city outside picker list", query: models.PlaceQuery{Query: "temple", Location: "Amritsar, Punjab"}, expected: []string{"Golden Temple"}},
		{name: "no match", query: models.PlaceQuery{Query: "ski resorts", Location: "Chennai"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places, err := p.Search(context.Background(), tt.query)
			require.NoError(t, err)

			titles := make([]string, 0, len(places))
			for _, pl := range places {
				titles = append(titles, pl.Title)
				assert.Equal(t, "curated", pl.Source)
			}
			assert.Equal(t, tt.expected, titles)
		})
	}
}

func TestCuratedProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCuratedProvider(nil).Search(ctx, models.PlaceQuery{Query: "forts", Location: "Jaipur"})
	assert.ErrorIs(t, err, context.Canceled)
}
