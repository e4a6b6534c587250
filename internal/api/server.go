// Package api provides the HTTP API server and handlers for the MetroAtlas application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	config    *config.Config
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	logger    *slog.Logger

	geocodeLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:  services,
		config:    cfg,
		router:    router,
		api:       api,
		validator: validation.New(),
		logger:    logger,
		// Uploads are the expensive path; geocoding gets its own
		// inbound limit so one client cannot drain the Nominatim budget.
		geocodeLimiter: NewRateLimiter(30, time.Minute, 5),
	}

	s.registerHealthRoutes()
	s.registerDatasetRoutes()
	s.registerGeocodeRoutes()
	s.registerExploreRoutes()
	s.registerProfileRoutes()
	s.registerCacheRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
