package service

import (
	"log/slog"

	"github.com/metroatlas/metroatlas-server/internal/color"
	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/schema"
	"github.com/metroatlas/metroatlas-server/internal/session"
)

// ProfileService renders system profiles and tracks the selection.
type ProfileService struct {
	session *session.Session
	logger  *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(sess *session.Session, logger *slog.Logger) *ProfileService {
	return &ProfileService{session: sess, logger: logger}
}

// ProfileField is one label/value pair of a system profile, in the
// table's column order.
type ProfileField struct {
	Label string       `json:"label"`
	Value domain.Value `json:"value"`
}

// Profile is the detail panel for a single system.
type Profile struct {
	SystemID string         `json:"systemId"`
	Visited  string         `json:"visited"`
	Era      string         `json:"era"`
	Fields   []ProfileField `json:"fields"`
}

// System renders the profile of the first row matching systemID.
func (s *ProfileService) System(systemID string) (*Profile, error) {
	ds := s.session.Dataset()
	if ds == nil {
		return nil, errors.NoDataset("no dataset loaded")
	}

	t := ds.Table
	row := -1
	for i := 0; i < t.NumRows(); i++ {
		if t.Cell(schema.ColSystemID, i).String() == systemID {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, errors.NotFoundf("system %q not found in the current dataset", systemID)
	}

	profile := &Profile{
		SystemID: systemID,
		Visited:  string(domain.ParseVisited(t.Cell(schema.ColVisited, row))),
		Era:      openedEra(t, row),
	}
	for _, col := range t.Columns() {
		profile.Fields = append(profile.Fields, ProfileField{
			Label: col,
			Value: t.Cell(col, row),
		})
	}
	return profile, nil
}

// Select records systemID as the dashboard selection. The ID must exist
// in the active dataset, and version must match the dataset's version so
// a selection made against a replaced upload is rejected as stale.
func (s *ProfileService) Select(systemID, version string) error {
	ds := s.session.Dataset()
	if ds == nil {
		return errors.NoDataset("no dataset loaded")
	}
	if version != ds.Version {
		return errors.StaleData("the selection refers to a replaced dataset")
	}
	if _, err := s.System(systemID); err != nil {
		return err
	}

	s.session.Select(systemID)
	s.logger.Debug("system selected", "system_id", systemID)
	return nil
}

// Selected returns the current selection and the dataset version it was
// made against; systemID is empty when nothing is selected.
func (s *ProfileService) Selected() (systemID, version string, err error) {
	if s.session.Dataset() == nil {
		return "", "", errors.NoDataset("no dataset loaded")
	}
	systemID, version = s.session.Selected()
	return systemID, version, nil
}

func openedEra(t *domain.Table, row int) string {
	return color.OpenedEra(t.Cell(schema.ColOpenedYear, row))
}
