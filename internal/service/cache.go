package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/id"
	"github.com/metroatlas/metroatlas-server/internal/pipeline"
	"github.com/metroatlas/metroatlas-server/internal/session"
	"github.com/metroatlas/metroatlas-server/internal/storage"
)

// CacheService persists the cleaned table as a CSV blob and restores it.
type CacheService struct {
	session *session.Session
	store   storage.TableStore
	logger  *slog.Logger
}

// NewCacheService creates a new cache service.
func NewCacheService(sess *session.Session, store storage.TableStore, logger *slog.Logger) *CacheService {
	return &CacheService{
		session: sess,
		store:   store,
		logger:  logger,
	}
}

// Status reports whether a cached table blob exists.
func (s *CacheService) Status(ctx context.Context) (exists bool, err error) {
	return s.store.Exists(ctx)
}

// Save writes the active dataset's table to the blob store, replacing
// any previous blob.
func (s *CacheService) Save(ctx context.Context) error {
	ds := s.session.Dataset()
	if ds == nil {
		return errors.NoDataset("no dataset loaded")
	}
	return s.store.Save(ctx, ds.Table)
}

// Load replaces the session's dataset wholesale with the cached table.
// The restored dataset carries a "cached-" version tag derived from the
// blob's content so selections cannot silently span the swap.
func (s *CacheService) Load(ctx context.Context) (*domain.Dataset, error) {
	table, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := storage.EncodeCSV(table)
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		ID:        id.NewDatasetID(),
		Version:   "cached-" + pipeline.Hash(encoded)[:16],
		Source:    "cache",
		CreatedAt: time.Now().UTC(),
		Table:     table,
	}
	s.session.SetDataset(ds)

	s.logger.Info("dataset restored from cache",
		"dataset_id", ds.ID,
		"rows", table.NumRows(),
	)
	return ds, nil
}
