package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "forbidden",
			err:        apperrors.Wrapf(apperrors.ErrForbidden, "user u-1 is not an admin"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"forbidden","error_description":"admin required"}`,
		},
		{
			name:       "weak password",
			err:        fmt.Errorf("%w: too long", apperrors.ErrWeakPassword),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid_request","error_description":"password does not meet requirements: too long"}`,
		},
		{
			name:       "self deletion",
			err:        apperrors.ErrSelfDeletion,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid_request","error_description":"cannot delete your own account"}`,
		},
		{
			name:       "not found",
			err:        apperrors.Wrapf(apperrors.ErrNotFound, "user"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"not_found"}`,
		},
		{
			name:       "conflict",
			err:        apperrors.ErrAlreadyExists,
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"already_exists"}`,
		},
		{
			name:       "upstream",
			err:        apperrors.Wrapf(apperrors.ErrUpstream, "list forms"),
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"upstream_error","error_description":"forms provider request failed"}`,
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"server_error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), tt.err)
			require.Equal(t, tt.wantStatus, rec.Code)
			require.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
