package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/geocode"
	"github.com/metroatlas/metroatlas-server/internal/schema"
	"github.com/metroatlas/metroatlas-server/internal/session"
)

// GeocodeService backfills coordinates on the active dataset.
type GeocodeService struct {
	session  *session.Session
	provider geocode.Provider
	logger   *slog.Logger
}

// NewGeocodeService creates a new geocode service.
func NewGeocodeService(sess *session.Session, provider geocode.Provider, logger *slog.Logger) *GeocodeService {
	return &GeocodeService{
		session:  sess,
		provider: provider,
		logger:   logger,
	}
}

// EnrichResult summarizes one enrichment pass.
type EnrichResult struct {
	Resolved   int
	Unresolved []string
	CacheSize  int
}

// Enrich fills missing LATITUDE/LONGITUDE cells on the active dataset
// in place. Unresolved locations are appended to the dataset's issues
// as a warning; they never fail the request.
func (s *GeocodeService) Enrich(ctx context.Context) (*EnrichResult, error) {
	ds := s.session.Dataset()
	if ds == nil {
		return nil, errors.NoDataset("no dataset loaded")
	}

	missing := missingCoords(ds)
	cache := s.session.GeocodeCache()
	enricher := geocode.NewEnricher(s.provider, cache, s.logger)

	unresolved, err := enricher.Enrich(ctx, ds.Table)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstream, "geocoding interrupted")
	}

	if len(unresolved) > 0 {
		ds.Issues = append(ds.Issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Could not resolve coordinates for: %s", strings.Join(unresolved, "; ")),
		})
	}

	result := &EnrichResult{
		Resolved:   missing - missingCoords(ds),
		Unresolved: unresolved,
		CacheSize:  cache.Len(),
	}

	s.logger.Info("geocoding pass complete",
		"resolved", result.Resolved,
		"unresolved", len(unresolved),
		"cache_size", result.CacheSize,
	)
	return result, nil
}

// missingCoords counts rows lacking a latitude or longitude.
func missingCoords(ds *domain.Dataset) int {
	n := 0
	for i := 0; i < ds.Table.NumRows(); i++ {
		lat := ds.Table.Cell(schema.ColLatitude, i)
		lon := ds.Table.Cell(schema.ColLongitude, i)
		if !lat.IsNumber() || !lon.IsNumber() {
			n++
		}
	}
	return n
}
