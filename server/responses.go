package server

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, errorResponse{Error: code, ErrorDescription: description})
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are rejected.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "malformed JSON body: %v", err)
	}
	return nil
}

// writeServiceError maps a service error onto the JSON error envelope.
// Internal detail is only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidRequest),
		apperrors.Is(err, apperrors.ErrWeakPassword),
		apperrors.Is(err, apperrors.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case apperrors.Is(err, apperrors.ErrSelfDeletion):
		writeError(w, http.StatusBadRequest, "invalid_request", "cannot delete your own account")
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "")
	case apperrors.Is(err, apperrors.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", "")
	case apperrors.Is(err, apperrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "admin required")
	case apperrors.Is(err, apperrors.ErrUpstream):
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("forms provider request failed")
		writeError(w, http.StatusBadGateway, "upstream_error", "forms provider request failed")
	case apperrors.Is(err, apperrors.ErrConfiguration):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("configuration error")
		writeError(w, http.StatusInternalServerError, "server_error", "")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error", "")
	}
}
