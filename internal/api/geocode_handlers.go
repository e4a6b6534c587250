package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerGeocodeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "geocodeDataset",
		Method:      http.MethodPost,
		Path:        "/api/v1/dataset/geocode",
		Summary:     "Geocode the active dataset",
		Description: "Fills in missing LATITUDE and LONGITUDE cells using the geocoding provider; unresolved locations become warnings, not failures",
		Tags:        []string{"Geocode"},
		Middlewares: huma.Middlewares{s.rateLimitByIP(s.geocodeLimiter)},
	}, s.handleGeocodeDataset)
}

type GeocodeOutput struct {
	Body struct {
		Resolved   int      `json:"resolved" doc:"Rows that gained coordinates in this pass"`
		Unresolved []string `json:"unresolved" doc:"Locations that could not be resolved"`
		CacheSize  int      `json:"cacheSize" doc:"Entries in the process-lifetime cache"`
	}
}

func (s *Server) handleGeocodeDataset(ctx context.Context, _ *struct{}) (*GeocodeOutput, error) {
	result, err := s.services.Geocode.Enrich(ctx)
	if err != nil {
		return nil, err
	}

	out := &GeocodeOutput{}
	out.Body.Resolved = result.Resolved
	out.Body.Unresolved = result.Unresolved
	out.Body.CacheSize = result.CacheSize
	return out, nil
}
