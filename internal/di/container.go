// Package di provides dependency injection configuration for the MetroAtlas server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/di/providers"
	"github.com/metroatlas/metroatlas-server/internal/logger"
	"github.com/metroatlas/metroatlas-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSession)
	do.Provide(injector, providers.ProvidePipeline)
	do.Provide(injector, providers.ProvideGeocodeProvider)
	do.Provide(injector, providers.ProvideTableStore)

	// Business services
	do.Provide(injector, providers.ProvideDatasetService)
	do.Provide(injector, providers.ProvideGeocodeService)
	do.Provide(injector, providers.ProvideExploreService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideCacheService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)

	// Business services
	_ = do.MustInvoke[*service.DatasetService](injector)
	_ = do.MustInvoke[*service.GeocodeService](injector)
	_ = do.MustInvoke[*service.ExploreService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.CacheService](injector)

	// Server last, so everything it needs is ready
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
