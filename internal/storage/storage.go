// Package storage persists normalized dataset tables as CSV blobs.
package storage

import (
	"context"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
)

// TableStore saves and restores a single processed table. Save replaces
// any previously stored table.
type TableStore interface {
	Save(ctx context.Context, table *domain.Table) error
	Load(ctx context.Context) (*domain.Table, error)
	Exists(ctx context.Context) (bool, error)
}

// Disabled is the store used when no blob credentials are configured.
// Every operation fails with an unavailable error; Exists reports false
// so the dashboard can render without a backing bucket.
type Disabled struct{}

func (Disabled) Save(context.Context, *domain.Table) error {
	return errors.Unavailable("blob storage is not configured")
}

func (Disabled) Load(context.Context) (*domain.Table, error) {
	return nil, errors.Unavailable("blob storage is not configured")
}

func (Disabled) Exists(context.Context) (bool, error) {
	return false, nil
}
