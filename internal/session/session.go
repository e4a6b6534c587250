// Package session holds the explorer's in-memory workflow state: the
// active dataset, the current selection, and the geocoding cache. The
// state lives for the process lifetime and is never persisted.
package session

import (
	"sync"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/geocode"
)

// Session is safe for concurrent use by API handlers.
type Session struct {
	mu       sync.RWMutex
	dataset  *domain.Dataset
	selected string // SYSTEM_ID of the selected row, "" when none

	geocodeCache *geocode.Cache
}

func New() *Session {
	return &Session{
		geocodeCache: geocode.NewCache(),
	}
}

// Dataset returns the active dataset, or nil when nothing has been
// ingested yet.
func (s *Session) Dataset() *domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// SetDataset installs a new active dataset and clears the selection.
// The geocoding cache deliberately survives dataset swaps so repeat
// uploads of overlapping cities stay cheap.
func (s *Session) SetDataset(ds *domain.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.selected = ""
}

// Selected returns the selected system ID and the version of the
// dataset the selection was made against.
func (s *Session) Selected() (systemID, version string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return s.selected, ""
	}
	return s.selected, s.dataset.Version
}

// Select records a selection. The caller is responsible for validating
// the system ID against the active dataset first.
func (s *Session) Select(systemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = systemID
}

// ClearSelection drops the selection without touching the dataset.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// GeocodeCache returns the shared process-lifetime geocoding cache.
func (s *Session) GeocodeCache() *geocode.Cache {
	return s.geocodeCache
}

// Reset drops all workflow state, geocoding cache included.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = nil
	s.selected = ""
	s.geocodeCache = geocode.NewCache()
}
