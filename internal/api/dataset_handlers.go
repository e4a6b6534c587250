package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/metroatlas/metroatlas-server/internal/domain"
)

func (s *Server) registerDatasetRoutes() {
	maxBody := int64(s.config.Server.MaxUploadMB) * 1024 * 1024

	huma.Register(s.api, huma.Operation{
		OperationID:  "listSheets",
		Method:       http.MethodPost,
		Path:         "/api/v1/dataset/sheets",
		Summary:      "List workbook sheets",
		Description:  "Returns the sheet names of an uploaded Excel workbook without processing it",
		Tags:         []string{"Dataset"},
		MaxBodyBytes: maxBody,
	}, s.handleListSheets)

	huma.Register(s.api, huma.Operation{
		OperationID:  "processDataset",
		Method:       http.MethodPost,
		Path:         "/api/v1/dataset",
		Summary:      "Upload and process a spreadsheet",
		Description:  "Runs the cleaning pipeline on an uploaded workbook or CSV and installs the result as the active dataset",
		Tags:         []string{"Dataset"},
		MaxBodyBytes: maxBody,
	}, s.handleProcessDataset)

	huma.Register(s.api, huma.Operation{
		OperationID: "loadSampleDataset",
		Method:      http.MethodPost,
		Path:        "/api/v1/dataset/sample",
		Summary:     "Load the sample dataset",
		Tags:        []string{"Dataset"},
	}, s.handleLoadSample)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDataset",
		Method:      http.MethodGet,
		Path:        "/api/v1/dataset",
		Summary:     "Get the active dataset",
		Description: "Returns the cleaned table, its summary, and the issues recorded while processing it",
		Tags:        []string{"Dataset"},
	}, s.handleGetDataset)
}

type ListSheetsInput struct {
	RawBody []byte
}

type ListSheetsOutput struct {
	Body struct {
		Sheets []string `json:"sheets" doc:"Sheet names in workbook order"`
	}
}

func (s *Server) handleListSheets(ctx context.Context, input *ListSheetsInput) (*ListSheetsOutput, error) {
	sheets, err := s.services.Dataset.Sheets(ctx, input.RawBody)
	if err != nil {
		return nil, err
	}

	out := &ListSheetsOutput{}
	out.Body.Sheets = sheets
	return out, nil
}

type ProcessDatasetInput struct {
	Sheet    string `query:"sheet" doc:"Sheet to process; defaults to the first sheet"`
	Filename string `query:"filename" doc:"Original filename, recorded as the dataset source"`
	RawBody  []byte
}

// DatasetSummary is the dashboard's "Data Summary" panel.
type DatasetSummary struct {
	ID        string   `json:"id" doc:"Dataset ID"`
	Version   string   `json:"version" doc:"Content hash of the upload"`
	Source    string   `json:"source,omitempty" doc:"Original filename"`
	Sheet     string   `json:"sheet,omitempty" doc:"Processed sheet"`
	Rows      int      `json:"rows" doc:"Row count after cleaning"`
	Columns   []string `json:"columns" doc:"Column names in order"`
	CreatedAt string   `json:"createdAt" doc:"Ingestion time (RFC 3339)"`
}

// IssueResponse is one advisory issue in API responses.
type IssueResponse struct {
	Severity string `json:"severity" doc:"error or warning"`
	Column   string `json:"column,omitempty" doc:"Affected column, if any"`
	Message  string `json:"message"`
}

type DatasetOutput struct {
	Body struct {
		Summary DatasetSummary  `json:"summary"`
		Issues  []IssueResponse `json:"issues"`
	}
}

func (s *Server) handleProcessDataset(ctx context.Context, input *ProcessDatasetInput) (*DatasetOutput, error) {
	ds, err := s.services.Dataset.Ingest(ctx, input.RawBody, input.Filename, input.Sheet)
	if err != nil {
		return nil, err
	}
	return datasetOutput(ds), nil
}

func (s *Server) handleLoadSample(ctx context.Context, _ *struct{}) (*DatasetOutput, error) {
	ds, err := s.services.Dataset.LoadSample(ctx)
	if err != nil {
		return nil, err
	}
	return datasetOutput(ds), nil
}

type GetDatasetOutput struct {
	Body struct {
		Summary DatasetSummary   `json:"summary"`
		Issues  []IssueResponse  `json:"issues"`
		Rows    [][]domain.Value `json:"rows" doc:"Cell values in column order"`
	}
}

func (s *Server) handleGetDataset(_ context.Context, _ *struct{}) (*GetDatasetOutput, error) {
	ds, err := s.services.Dataset.Current()
	if err != nil {
		return nil, err
	}

	out := &GetDatasetOutput{}
	out.Body.Summary = summarize(ds)
	out.Body.Issues = issueResponses(ds.Issues)
	out.Body.Rows = make([][]domain.Value, 0, ds.Table.NumRows())
	for i := 0; i < ds.Table.NumRows(); i++ {
		out.Body.Rows = append(out.Body.Rows, ds.Table.Row(i))
	}
	return out, nil
}

func datasetOutput(ds *domain.Dataset) *DatasetOutput {
	out := &DatasetOutput{}
	out.Body.Summary = summarize(ds)
	out.Body.Issues = issueResponses(ds.Issues)
	return out
}

func summarize(ds *domain.Dataset) DatasetSummary {
	return DatasetSummary{
		ID:        ds.ID,
		Version:   ds.Version,
		Source:    ds.Source,
		Sheet:     ds.Sheet,
		Rows:      ds.Table.NumRows(),
		Columns:   ds.Table.Columns(),
		CreatedAt: ds.CreatedAt.Format(time.RFC3339),
	}
}

func issueResponses(issues []domain.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, IssueResponse{
			Severity: string(issue.Severity),
			Column:   issue.Column,
			Message:  issue.Message,
		})
	}
	return out
}
