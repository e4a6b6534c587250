package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/metroatlas/metroatlas-server/internal/service"
)

func (s *Server) registerExploreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMap",
		Method:      http.MethodGet,
		Path:        "/api/v1/map",
		Summary:     "Map view",
		Description: "Returns a colored marker for every system that has coordinates",
		Tags:        []string{"Explore"},
	}, s.handleGetMap)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlots",
		Method:      http.MethodGet,
		Path:        "/api/v1/plots",
		Summary:     "Plot view",
		Description: "Lists the plottable columns; given x and y, also returns the scatter series",
		Tags:        []string{"Explore"},
	}, s.handleGetPlots)
}

type MapOutput struct {
	Body struct {
		Points  []service.MapPoint `json:"points"`
		Skipped int                `json:"skipped" doc:"Rows without coordinates"`
	}
}

func (s *Server) handleGetMap(_ context.Context, _ *struct{}) (*MapOutput, error) {
	points, skipped, err := s.services.Explore.MapPoints()
	if err != nil {
		return nil, err
	}

	out := &MapOutput{}
	out.Body.Points = points
	out.Body.Skipped = skipped
	return out, nil
}

type GetPlotsInput struct {
	X string `query:"x" doc:"X axis column"`
	Y string `query:"y" doc:"Y axis column"`
}

type PlotsOutput struct {
	Body struct {
		Axes   []string            `json:"axes" doc:"Plottable columns present in the dataset"`
		Series *service.PlotSeries `json:"series,omitempty" doc:"Scatter data for the requested pair"`
	}
}

func (s *Server) handleGetPlots(_ context.Context, input *GetPlotsInput) (*PlotsOutput, error) {
	axes, err := s.services.Explore.Axes()
	if err != nil {
		return nil, err
	}

	out := &PlotsOutput{}
	out.Body.Axes = axes

	if input.X != "" || input.Y != "" {
		series, err := s.services.Explore.Series(input.X, input.Y)
		if err != nil {
			return nil, err
		}
		out.Body.Series = series
	}
	return out, nil
}
