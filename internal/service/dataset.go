// Package service provides the business logic layer for ingesting,
// enriching, and presenting subway system datasets.
package service

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/id"
	"github.com/metroatlas/metroatlas-server/internal/ingest"
	"github.com/metroatlas/metroatlas-server/internal/pipeline"
	"github.com/metroatlas/metroatlas-server/internal/schema"
	"github.com/metroatlas/metroatlas-server/internal/session"
)

// SampleVersion tags the built-in sample dataset instead of a content hash.
const SampleVersion = "sample-data-v1"

var zipMagic = []byte("PK")

// DatasetService turns raw uploads into the session's active dataset.
type DatasetService struct {
	session  *session.Session
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// NewDatasetService creates a new dataset service.
func NewDatasetService(sess *session.Session, p *pipeline.Pipeline, logger *slog.Logger) *DatasetService {
	return &DatasetService{
		session:  sess,
		pipeline: p,
		logger:   logger,
	}
}

// Sheets lists the sheet names of an uploaded workbook without
// processing any of them.
func (s *DatasetService) Sheets(ctx context.Context, raw []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wb, err := ingest.OpenWorkbook(raw)
	if err != nil {
		return nil, err
	}
	return wb.SheetNames(), nil
}

// Ingest reads an upload, runs the cleaning pipeline, and installs the
// result as the session's active dataset. CSV uploads are detected by
// content, not filename; sheet selects a workbook sheet and is ignored
// for CSV.
func (s *DatasetService) Ingest(ctx context.Context, raw []byte, filename, sheet string) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := s.readUpload(raw, sheet)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline.Run(table)
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		ID:        id.NewDatasetID(),
		Version:   pipeline.Hash(raw),
		Source:    filename,
		Sheet:     sheet,
		CreatedAt: time.Now().UTC(),
		Table:     result.Table,
		Issues:    result.Issues,
	}
	s.session.SetDataset(ds)

	s.logger.Info("dataset ingested",
		"dataset_id", ds.ID,
		"source", filename,
		"sheet", sheet,
		"rows", ds.Table.NumRows(),
		"issues", len(ds.Issues),
	)
	return ds, nil
}

func (s *DatasetService) readUpload(raw []byte, sheet string) (*domain.Table, error) {
	if bytes.HasPrefix(raw, zipMagic) {
		wb, err := ingest.OpenWorkbook(raw)
		if err != nil {
			return nil, err
		}
		return wb.ReadSheet(sheet)
	}
	return ingest.ReadCSV(raw)
}

// LoadSample installs the built-in three-city sample dataset.
func (s *DatasetService) LoadSample(ctx context.Context) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		ID:        id.NewDatasetID(),
		Version:   SampleVersion,
		Source:    "sample",
		CreatedAt: time.Now().UTC(),
		Table:     sampleTable(),
	}
	s.session.SetDataset(ds)

	s.logger.Info("sample dataset loaded", "dataset_id", ds.ID)
	return ds, nil
}

// Current returns the session's active dataset.
func (s *DatasetService) Current() (*domain.Dataset, error) {
	ds := s.session.Dataset()
	if ds == nil {
		return nil, errors.NoDataset("no dataset loaded")
	}
	return ds, nil
}

// sampleTable mirrors the demo data the dashboard ships with.
func sampleTable() *domain.Table {
	t := domain.FromRows(
		[]string{
			schema.ColSystemID, schema.ColCity, schema.ColCountry, schema.ColSystemName,
			schema.ColOpenedYear, schema.ColNumberOfLines, schema.ColStations,
			schema.ColAnnualRidership, schema.ColVisited, schema.ColLatitude, schema.ColLongitude,
		},
		[][]string{
			{"NEW_YORK_USA", "New York", "USA", "New York City Subway", "", "", "", "", "yes", "", ""},
			{"LONDON_UK", "London", "UK", "London Underground", "", "", "", "", "yes", "", ""},
			{"TOKYO_JAPAN", "Tokyo", "Japan", "Tokyo Metro", "", "", "", "", "no", "", ""},
		},
	)
	t.SetColumn(schema.ColOpenedYear, numbers(1904, 1863, 1927))
	t.SetColumn(schema.ColNumberOfLines, numbers(36, 11, 9))
	t.SetColumn(schema.ColStations, numbers(472, 272, 180))
	t.SetColumn(schema.ColAnnualRidership, numbers(1_700_000_000, 1_300_000_000, 2_700_000_000))
	t.SetColumn(schema.ColLatitude, numbers(40.7128, 51.5074, 35.6762))
	t.SetColumn(schema.ColLongitude, numbers(-74.0060, -0.1278, 139.6503))
	return t
}

func numbers(vals ...float64) []domain.Value {
	cells := make([]domain.Value, len(vals))
	for i, v := range vals {
		cells[i] = domain.Number(v)
	}
	return cells
}
