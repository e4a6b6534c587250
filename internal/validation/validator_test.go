package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/metroatlas/metroatlas-server/internal/errors"
	"github.com/metroatlas/metroatlas-server/internal/validation"
)

type selectRequest struct {
	SystemID string  `json:"system_id" validate:"required"`
	Version  string  `json:"version" validate:"required,min=8"`
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := selectRequest{
		SystemID: "LONDON_UK",
		Version:  "a1b2c3d4e5",
		Lat:      51.5,
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        selectRequest
		wantErrMsg string
	}{
		{
			name:       "missing required field",
			req:        selectRequest{Version: "a1b2c3d4e5"},
			wantErrMsg: "system_id",
		},
		{
			name:       "version too short",
			req:        selectRequest{SystemID: "LONDON_UK", Version: "abc"},
			wantErrMsg: "version",
		},
		{
			name:       "latitude out of range",
			req:        selectRequest{SystemID: "LONDON_UK", Version: "a1b2c3d4e5", Lat: 120},
			wantErrMsg: "lat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(selectRequest{Version: "a1b2c3d4e5"})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, errors.As(err, &domainErr)) {
		details := domainErr.Details.(map[string]string)
		// Uses the JSON tag name, not the struct field name.
		assert.Contains(t, details, "system_id")
		assert.NotContains(t, details, "SystemID")
	}
}
