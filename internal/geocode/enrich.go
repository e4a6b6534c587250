package geocode

import (
	"context"
	"errors"
	"log/slog"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/schema"
)

// Enricher backfills LATITUDE and LONGITUDE on a dataset table using a
// geocoding provider fronted by a process-lifetime cache.
type Enricher struct {
	provider Provider
	cache    *Cache
	logger   *slog.Logger
}

// NewEnricher creates an enricher that shares the given cache.
func NewEnricher(provider Provider, cache *Cache, logger *slog.Logger) *Enricher {
	return &Enricher{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}
}

// Enrich fills in missing coordinates in place. Rows that already carry
// both a latitude and a longitude are left untouched and cost no
// lookup. The returned slice lists the queries that could not be
// resolved, deduplicated in first-seen order; lookup failures are
// recorded as negative cache entries so they are not retried.
func (e *Enricher) Enrich(ctx context.Context, table *domain.Table) ([]string, error) {
	n := table.NumRows()
	if n == 0 {
		return nil, nil
	}

	lats := coordColumn(table, schema.ColLatitude, n)
	lons := coordColumn(table, schema.ColLongitude, n)

	var unresolved []string
	seen := make(map[string]bool)
	miss := func(query string) {
		if !seen[query] {
			seen[query] = true
			unresolved = append(unresolved, query)
		}
	}

	for i := 0; i < n; i++ {
		if lats[i].IsNumber() && lons[i].IsNumber() {
			continue
		}

		city := table.Cell(schema.ColCity, i).String()
		country := table.Cell(schema.ColCountry, i).String()
		query := Key(city, country)
		if city == "" || country == "" {
			miss(query)
			continue
		}

		loc, err := e.resolve(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return unresolved, ctx.Err()
			}
			miss(query)
			continue
		}
		lats[i] = domain.Number(loc.Lat)
		lons[i] = domain.Number(loc.Lon)
	}

	table.SetColumn(schema.ColLatitude, lats)
	table.SetColumn(schema.ColLongitude, lons)
	return unresolved, nil
}

// resolve answers from the cache when it can, hitting the provider only
// for queries it has never seen.
func (e *Enricher) resolve(ctx context.Context, query string) (Location, error) {
	if loc, ok := e.cache.Get(query); ok {
		if loc == nil {
			return Location{}, wrapError("lookup", query, ErrNoResult)
		}
		return *loc, nil
	}

	loc, err := e.provider.Lookup(ctx, query)
	if err != nil {
		if ctx.Err() == nil {
			e.cache.PutMiss(query)
		}
		if !errors.Is(err, ErrNoResult) {
			e.logger.Warn("geocode lookup failed", "query", query, "error", err)
		}
		return Location{}, err
	}

	e.cache.Put(query, loc)
	return loc, nil
}

// coordColumn returns the named column, adding it filled with nulls
// when the table does not have it yet.
func coordColumn(table *domain.Table, name string, n int) []domain.Value {
	if table.Has(name) {
		return table.Column(name)
	}
	cells := make([]domain.Value, n)
	for i := range cells {
		cells[i] = domain.Null()
	}
	table.AddColumn(name, cells)
	return table.Column(name)
}
