package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/metroatlas/metroatlas-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSystem",
		Method:      http.MethodGet,
		Path:        "/api/v1/systems/{id}",
		Summary:     "System profile",
		Description: "Renders every column of the first row matching the system ID as ordered label/value pairs",
		Tags:        []string{"Systems"},
	}, s.handleGetSystem)

	huma.Register(s.api, huma.Operation{
		OperationID: "setSelection",
		Method:      http.MethodPut,
		Path:        "/api/v1/selection",
		Summary:     "Select a system",
		Tags:        []string{"Systems"},
	}, s.handleSetSelection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSelection",
		Method:      http.MethodGet,
		Path:        "/api/v1/selection",
		Summary:     "Get the current selection",
		Tags:        []string{"Systems"},
	}, s.handleGetSelection)
}

type GetSystemInput struct {
	ID string `path:"id" doc:"System ID"`
}

type SystemOutput struct {
	Body service.Profile
}

func (s *Server) handleGetSystem(_ context.Context, input *GetSystemInput) (*SystemOutput, error) {
	profile, err := s.services.Profile.System(input.ID)
	if err != nil {
		return nil, err
	}
	return &SystemOutput{Body: *profile}, nil
}

type SetSelectionInput struct {
	Body struct {
		SystemID string `json:"systemId" validate:"required" doc:"System to select"`
		Version  string `json:"version" validate:"required" doc:"Dataset version the selection was made against"`
	}
}

type SelectionOutput struct {
	Body struct {
		SystemID string `json:"systemId,omitempty" doc:"Selected system; empty when nothing is selected"`
		Version  string `json:"version" doc:"Version of the active dataset"`
	}
}

func (s *Server) handleSetSelection(_ context.Context, input *SetSelectionInput) (*SelectionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	if err := s.services.Profile.Select(input.Body.SystemID, input.Body.Version); err != nil {
		return nil, err
	}
	return s.selectionOutput()
}

func (s *Server) handleGetSelection(_ context.Context, _ *struct{}) (*SelectionOutput, error) {
	return s.selectionOutput()
}

func (s *Server) selectionOutput() (*SelectionOutput, error) {
	id, version, err := s.services.Profile.Selected()
	if err != nil {
		return nil, err
	}

	out := &SelectionOutput{}
	out.Body.SystemID = id
	out.Body.Version = version
	return out, nil
}
