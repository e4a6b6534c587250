package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or degraded"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	// Blob storage is optional; running without it is degraded, not broken.
	if s.config.Storage.Enabled() {
		storageHealth := ComponentHealth{Status: "healthy"}
		if _, err := s.services.Cache.Status(ctx); err != nil {
			storageHealth = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			overall = "degraded"
		}
		components["storage"] = storageHealth
	} else {
		components["storage"] = ComponentHealth{
			Status:  "degraded",
			Message: "blob storage not configured",
		}
	}

	dataset := ComponentHealth{Status: "healthy", Message: "no dataset loaded"}
	if ds, err := s.services.Dataset.Current(); err == nil {
		dataset.Message = "dataset " + ds.ID + " loaded"
	}
	components["dataset"] = dataset

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}
