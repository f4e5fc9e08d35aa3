package server

import (
	"net/http"

	"github.com/jrsteele09/survey-admin/credentials"
	"github.com/rs/zerolog/log"
)

type keyStatus struct {
	Configured     bool `json:"configured"`
	ServerFallback bool `json:"server_fallback"`
}

type apiKeysResponse struct {
	Keys map[credentials.Integration]keyStatus `json:"keys"`
}

func (s *Server) apiKeysStatus(r *http.Request, userID string) (apiKeysResponse, error) {
	status, err := s.keys.Status(r.Context(), userID)
	if err != nil {
		return apiKeysResponse{}, err
	}
	resp := apiKeysResponse{Keys: make(map[credentials.Integration]keyStatus, len(status))}
	for _, i := range credentials.Integrations {
		resp.Keys[i] = keyStatus{Configured: status[i], ServerFallback: s.keys.HasServerKey(i)}
	}
	return resp, nil
}

// APIKeysGetHandler reports which keys are stored, never the keys themselves.
func (s *Server) APIKeysGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		resp, err := s.apiKeysStatus(r, id.SubjectID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// APIKeysPatchHandler applies a partial update: absent fields are left
// untouched, null or "" clears, a string replaces.
func (s *Server) APIKeysPatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())

		var req credentials.KeysRequest
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		updates := req.Updates()
		if err := s.keys.Apply(r.Context(), id.SubjectID, updates); err != nil {
			writeServiceError(w, r, err)
			return
		}
		if updates[credentials.IntegrationForms].Kind != credentials.Unchanged {
			s.formsCache.Delete(formsCacheKey(id.SubjectID, credentials.SourceUser))
		}
		for i, u := range updates {
			if u.Kind != credentials.Unchanged {
				log.Info().Str("user_id", id.SubjectID).Str("integration", string(i)).Str("change", u.Kind.String()).Msg("api key updated")
			}
		}

		resp, err := s.apiKeysStatus(r, id.SubjectID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
