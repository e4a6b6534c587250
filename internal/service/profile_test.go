package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/session"
)

func setupProfileService(t *testing.T) (*ProfileService, *session.Session) {
	t.Helper()
	sess := session.New()
	return NewProfileService(sess, testLogger()), sess
}

func TestProfileServiceSystem(t *testing.T) {
	svc, sess := setupProfileService(t)
	loadSample(t, sess)

	profile, err := svc.System("TOKYO_JAPAN")
	require.NoError(t, err)

	assert.Equal(t, "TOKYO_JAPAN", profile.SystemID)
	assert.Equal(t, "no", profile.Visited)
	assert.Equal(t, "pre-1985", profile.Era)

	// Fields follow the table's column order.
	require.NotEmpty(t, profile.Fields)
	assert.Equal(t, "SYSTEM_ID", profile.Fields[0].Label)
	assert.Equal(t, "TOKYO_JAPAN", profile.Fields[0].Value.String())
}

func TestProfileServiceSystemNotFound(t *testing.T) {
	svc, sess := setupProfileService(t)
	loadSample(t, sess)

	_, err := svc.System("MARS_COLONY")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestProfileServiceSelect(t *testing.T) {
	svc, sess := setupProfileService(t)
	loadSample(t, sess)

	require.NoError(t, svc.Select("LONDON_UK", SampleVersion))

	id, version, err := svc.Selected()
	require.NoError(t, err)
	assert.Equal(t, "LONDON_UK", id)
	assert.Equal(t, SampleVersion, version)
}

func TestProfileServiceSelectStaleVersion(t *testing.T) {
	svc, sess := setupProfileService(t)
	loadSample(t, sess)

	err := svc.Select("LONDON_UK", "cafebabe")
	assert.ErrorIs(t, err, errors.ErrStaleData)
}

func TestProfileServiceSelectionClearedByNewDataset(t *testing.T) {
	svc, sess := setupProfileService(t)
	loadSample(t, sess)
	require.NoError(t, svc.Select("LONDON_UK", SampleVersion))

	// A new upload invalidates the selection and its version.
	ds := ingestCSV(t, sess, uploadCSV)

	id, version, err := svc.Selected()
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, ds.Version, version)

	// The stale ID no longer resolves.
	_, err = svc.System("LONDON_UK")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestProfileServiceNoDataset(t *testing.T) {
	svc, _ := setupProfileService(t)

	_, err := svc.System("LONDON_UK")
	assert.ErrorIs(t, err, errors.ErrNoDataset)

	_, _, err = svc.Selected()
	assert.ErrorIs(t, err, errors.ErrNoDataset)
}
