package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/metroatlas/metroatlas-server/internal/api"
	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/logger"
	"github.com/metroatlas/metroatlas-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Dataset: do.MustInvoke[*service.DatasetService](i),
		Geocode: do.MustInvoke[*service.GeocodeService](i),
		Explore: do.MustInvoke[*service.ExploreService](i),
		Profile: do.MustInvoke[*service.ProfileService](i),
		Cache:   do.MustInvoke[*service.CacheService](i),
	}

	handler := api.NewServer(cfg, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
