package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerCacheRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCacheStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/cache",
		Summary:     "Cache blob status",
		Tags:        []string{"Cache"},
	}, s.handleGetCacheStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveToCache",
		Method:      http.MethodPost,
		Path:        "/api/v1/cache/save",
		Summary:     "Persist the active table",
		Description: "Writes the cleaned table to the blob store as CSV, replacing any previous blob",
		Tags:        []string{"Cache"},
	}, s.handleSaveToCache)

	huma.Register(s.api, huma.Operation{
		OperationID: "loadFromCache",
		Method:      http.MethodPost,
		Path:        "/api/v1/cache/load",
		Summary:     "Restore the cached table",
		Description: "Replaces the active dataset wholesale with the stored CSV blob",
		Tags:        []string{"Cache"},
	}, s.handleLoadFromCache)
}

type CacheStatusOutput struct {
	Body struct {
		Enabled bool `json:"enabled" doc:"Whether blob storage is configured"`
		Exists  bool `json:"exists" doc:"Whether a cached table blob is present"`
	}
}

func (s *Server) handleGetCacheStatus(ctx context.Context, _ *struct{}) (*CacheStatusOutput, error) {
	exists, err := s.services.Cache.Status(ctx)
	if err != nil {
		return nil, err
	}

	out := &CacheStatusOutput{}
	out.Body.Enabled = s.config.Storage.Enabled()
	out.Body.Exists = exists
	return out, nil
}

type CacheSaveOutput struct {
	Body struct {
		Saved bool `json:"saved"`
	}
}

func (s *Server) handleSaveToCache(ctx context.Context, _ *struct{}) (*CacheSaveOutput, error) {
	if err := s.services.Cache.Save(ctx); err != nil {
		return nil, err
	}

	out := &CacheSaveOutput{}
	out.Body.Saved = true
	return out, nil
}

func (s *Server) handleLoadFromCache(ctx context.Context, _ *struct{}) (*DatasetOutput, error) {
	ds, err := s.services.Cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	return datasetOutput(ds), nil
}
