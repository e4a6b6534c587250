package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/geocode"
	"github.com/metroatlas/metroatlas-server/internal/logger"
	"github.com/metroatlas/metroatlas-server/internal/pipeline"
	"github.com/metroatlas/metroatlas-server/internal/service"
	"github.com/metroatlas/metroatlas-server/internal/session"
	"github.com/metroatlas/metroatlas-server/internal/storage"
)

// ProvideSession provides the shared workflow session.
func ProvideSession(i do.Injector) (*session.Session, error) {
	return session.New(), nil
}

// ProvidePipeline provides the dataset cleaning pipeline.
func ProvidePipeline(i do.Injector) (*pipeline.Pipeline, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return pipeline.New(log), nil
}

// ProvideGeocodeProvider provides the Nominatim client.
func ProvideGeocodeProvider(i do.Injector) (geocode.Provider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return geocode.NewNominatim(cfg.Geocoder, log.Logger), nil
}

// ProvideTableStore provides the CSV blob store. Missing S3 credentials
// fall back to the disabled store rather than failing startup.
func ProvideTableStore(i do.Injector) (storage.TableStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Storage.Enabled() {
		log.Info("Blob storage not configured, cache endpoints disabled")
		return storage.Disabled{}, nil
	}

	store, err := storage.NewS3Store(context.Background(), cfg.Storage, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Blob storage configured",
		"bucket", cfg.Storage.S3Bucket,
		"key", cfg.Storage.S3Key,
	)
	return store, nil
}

// ProvideDatasetService provides the dataset ingestion service.
func ProvideDatasetService(i do.Injector) (*service.DatasetService, error) {
	sess := do.MustInvoke[*session.Session](i)
	p := do.MustInvoke[*pipeline.Pipeline](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewDatasetService(sess, p, log.Logger), nil
}

// ProvideGeocodeService provides the coordinate enrichment service.
func ProvideGeocodeService(i do.Injector) (*service.GeocodeService, error) {
	sess := do.MustInvoke[*session.Session](i)
	provider := do.MustInvoke[geocode.Provider](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewGeocodeService(sess, provider, log.Logger), nil
}

// ProvideExploreService provides the map and plot view service.
func ProvideExploreService(i do.Injector) (*service.ExploreService, error) {
	sess := do.MustInvoke[*session.Session](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewExploreService(sess, log.Logger), nil
}

// ProvideProfileService provides the profile and selection service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	sess := do.MustInvoke[*session.Session](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewProfileService(sess, log.Logger), nil
}

// ProvideCacheService provides the table persistence service.
func ProvideCacheService(i do.Injector) (*service.CacheService, error) {
	sess := do.MustInvoke[*session.Session](i)
	store := do.MustInvoke[storage.TableStore](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCacheService(sess, store, log.Logger), nil
}
