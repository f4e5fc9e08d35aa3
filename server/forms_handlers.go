package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/survey-admin/credentials"
	"github.com/jrsteele09/survey-admin/forms"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/internal/metrics"
)

// formsCacheKey shares the cached form list between everyone using the
// server-wide key.
func formsCacheKey(userID string, src credentials.Source) string {
	if src == credentials.SourceServer {
		return "server"
	}
	return userID
}

// formsClient resolves the caller's forms provider key.
func (s *Server) formsClient(ctx context.Context, userID string) (*forms.Client, credentials.Source, error) {
	key, src, err := s.keys.Resolve(ctx, userID, credentials.IntegrationForms)
	if err != nil {
		metrics.KeyResolutions.WithLabelValues(string(credentials.IntegrationForms), "none").Inc()
		return nil, "", err
	}
	metrics.KeyResolutions.WithLabelValues(string(credentials.IntegrationForms), string(src)).Inc()
	return s.provider.Client(key), src, nil
}

func writeMissingKey(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "missing_api_key", "no forms provider key is configured")
}

func (s *Server) FormsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		client, src, err := s.formsClient(r.Context(), id.SubjectID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			writeMissingKey(w)
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		cacheKey := formsCacheKey(id.SubjectID, src)
		if list, ok := s.formsCache.Get(cacheKey); ok {
			metrics.FormsCacheResults.WithLabelValues("hit").Inc()
			writeJSON(w, http.StatusOK, list)
			return
		}
		metrics.FormsCacheResults.WithLabelValues("miss").Inc()

		list, err := client.ListForms(r.Context())
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("list_forms").Inc()
			writeServiceError(w, r, err)
			return
		}
		s.formsCache.Set(cacheKey, list)
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) FormResponsesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		client, _, err := s.formsClient(r.Context(), id.SubjectID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			writeMissingKey(w)
			return
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		list, err := client.Responses(r.Context(), r.PathValue("id"), pageSize)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUpstream) {
				metrics.UpstreamErrors.WithLabelValues("responses").Inc()
			}
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// AnalyticsHandler reports assignment counts, plus response totals when a
// forms provider key is available.
func (s *Server) AnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		list, err := s.customers.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		var src forms.ResponseSource
		client, _, err := s.formsClient(r.Context(), id.SubjectID)
		switch {
		case err == nil:
			src = client
		case !apperrors.Is(err, apperrors.ErrNotFound):
			writeServiceError(w, r, err)
			return
		}

		report, err := s.analytics.Report(r.Context(), list, src)
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("analytics").Inc()
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
