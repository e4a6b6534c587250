package api

import (
	"github.com/metroatlas/metroatlas-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Dataset *service.DatasetService
	Geocode *service.GeocodeService
	Explore *service.ExploreService
	Profile *service.ProfileService
	Cache   *service.CacheService
}
