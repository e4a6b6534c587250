package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/schema"
)

// fakeProvider records lookups so tests can assert on cache behavior.
type fakeProvider struct {
	locations map[string]Location
	calls     []string
}

func (f *fakeProvider) Lookup(_ context.Context, query string) (Location, error) {
	f.calls = append(f.calls, query)
	loc, ok := f.locations[query]
	if !ok {
		return Location{}, wrapError("lookup", query, ErrNoResult)
	}
	return loc, nil
}

func setupEnricher(locations map[string]Location) (*Enricher, *fakeProvider, *Cache) {
	provider := &fakeProvider{locations: locations}
	cache := NewCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEnricher(provider, cache, logger), provider, cache
}

func cityTable(rows [][]string) *domain.Table {
	return domain.FromRows([]string{schema.ColCity, schema.ColCountry}, rows)
}

func TestEnricherFillsCoordinates(t *testing.T) {
	enricher, provider, _ := setupEnricher(map[string]Location{
		"Paris, France": {Lat: 48.8566, Lon: 2.3522},
		"Tokyo, Japan":  {Lat: 35.6762, Lon: 139.6503},
	})

	table := cityTable([][]string{
		{"Paris", "France"},
		{"Tokyo", "Japan"},
	})

	unresolved, err := enricher.Enrich(context.Background(), table)
	require.NoError(t, err)
	assert.Empty(t, unresolved)
	assert.Len(t, provider.calls, 2)

	lat, ok := table.Cell(schema.ColLatitude, 0).Float()
	require.True(t, ok)
	assert.InDelta(t, 48.8566, lat, 1e-9)
	lon, ok := table.Cell(schema.ColLongitude, 1).Float()
	require.True(t, ok)
	assert.InDelta(t, 139.6503, lon, 1e-9)
}

func TestEnricherCacheAvoidsRepeatLookups(t *testing.T) {
	enricher, provider, cache := setupEnricher(map[string]Location{
		"Paris, France": {Lat: 48.8566, Lon: 2.3522},
	})

	// Two rows for the same city, plus a second pass over a fresh table.
	table := cityTable([][]string{
		{"Paris", "France"},
		{"Paris", "France"},
	})
	_, err := enricher.Enrich(context.Background(), table)
	require.NoError(t, err)
	assert.Len(t, provider.calls, 1)

	again := cityTable([][]string{{"Paris", "France"}})
	_, err = enricher.Enrich(context.Background(), again)
	require.NoError(t, err)
	assert.Len(t, provider.calls, 1, "cached query should not reach the provider")
	assert.Equal(t, 1, cache.Len())
}

func TestEnricherNegativeCaching(t *testing.T) {
	enricher, provider, cache := setupEnricher(nil)

	table := cityTable([][]string{
		{"Atlantis", "Ocean"},
		{"Atlantis", "Ocean"},
	})
	unresolved, err := enricher.Enrich(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlantis, Ocean"}, unresolved)
	assert.Len(t, provider.calls, 1, "failed query should be retried from cache, not the provider")

	loc, ok := cache.Get("Atlantis, Ocean")
	assert.True(t, ok)
	assert.Nil(t, loc)

	assert.True(t, table.Cell(schema.ColLatitude, 0).IsNull())
}

func TestEnricherSkipsRowsWithCoordinates(t *testing.T) {
	enricher, provider, _ := setupEnricher(nil)

	table := cityTable([][]string{{"Paris", "France"}})
	table.AddColumn(schema.ColLatitude, []domain.Value{domain.Number(48.85)})
	table.AddColumn(schema.ColLongitude, []domain.Value{domain.Number(2.35)})

	unresolved, err := enricher.Enrich(context.Background(), table)
	require.NoError(t, err)
	assert.Empty(t, unresolved)
	assert.Empty(t, provider.calls)
}

func TestEnricherBlankCityOrCountry(t *testing.T) {
	enricher, provider, _ := setupEnricher(nil)

	table := cityTable([][]string{
		{"", "France"},
		{"Paris", ""},
	})
	unresolved, err := enricher.Enrich(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, []string{", France", "Paris, "}, unresolved)
	assert.Empty(t, provider.calls, "blank locations should not be looked up")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "Paris, France", Key("Paris", "France"))
}

func setupNominatim(t *testing.T, handler http.HandlerFunc) *Nominatim {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNominatim(config.GeocoderConfig{
		BaseURL:        srv.URL + "/search",
		UserAgent:      "MetroAtlas/1.0",
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 100,
	}, logger)
}

func TestNominatimLookup(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	client := setupNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat":"51.5074","lon":"-0.1278"}]`))
	})

	loc, err := client.Lookup(context.Background(), "London, United Kingdom")
	require.NoError(t, err)
	assert.Equal(t, "/search", gotPath, "lookups go to the search endpoint, not the site root")
	assert.Equal(t, "London, United Kingdom", gotQuery)
	assert.Equal(t, "MetroAtlas/1.0", gotAgent)
	assert.InDelta(t, 51.5074, loc.Lat, 1e-9)
	assert.InDelta(t, -0.1278, loc.Lon, 1e-9)
}

func TestNominatimLookupNoResult(t *testing.T) {
	client := setupNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.Lookup(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNoResult)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Nowhere", gerr.Query)
}

func TestNominatimLookupServerError(t *testing.T) {
	client := setupNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lookup(context.Background(), "London")
	assert.ErrorIs(t, err, ErrServer)
}
