package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/geocode"
)

func testDataset(version string) *domain.Dataset {
	return &domain.Dataset{
		ID:        "ds_test",
		Version:   version,
		Source:    "upload.xlsx",
		CreatedAt: time.Now().UTC(),
		Table:     domain.NewTable(),
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := New()
	assert.Nil(t, s.Dataset())

	s.SetDataset(testDataset("aaaa"))
	require.NotNil(t, s.Dataset())
	assert.Equal(t, "aaaa", s.Dataset().Version)

	s.Select("PARIS_FRANCE")
	id, version := s.Selected()
	assert.Equal(t, "PARIS_FRANCE", id)
	assert.Equal(t, "aaaa", version)

	// A new dataset invalidates the selection.
	s.SetDataset(testDataset("bbbb"))
	id, version = s.Selected()
	assert.Empty(t, id)
	assert.Equal(t, "bbbb", version)
}

func TestSessionClearSelection(t *testing.T) {
	s := New()
	s.SetDataset(testDataset("aaaa"))
	s.Select("TOKYO_JAPAN")
	s.ClearSelection()

	id, _ := s.Selected()
	assert.Empty(t, id)
	assert.NotNil(t, s.Dataset(), "clearing the selection keeps the dataset")
}

func TestSessionResetDropsCache(t *testing.T) {
	s := New()
	s.SetDataset(testDataset("aaaa"))
	s.GeocodeCache().Put("Paris, France", geocode.Location{Lat: 48.85, Lon: 2.35})

	s.Reset()
	assert.Nil(t, s.Dataset())
	assert.Equal(t, 0, s.GeocodeCache().Len())
}

func TestSessionCacheSurvivesDatasetSwap(t *testing.T) {
	s := New()
	s.GeocodeCache().Put("Paris, France", geocode.Location{Lat: 48.85, Lon: 2.35})
	s.SetDataset(testDataset("aaaa"))
	assert.Equal(t, 1, s.GeocodeCache().Len())
}
