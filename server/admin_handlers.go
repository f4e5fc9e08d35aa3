package server

import (
	"net/http"
	"strconv"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/internal/utils"
	"github.com/jrsteele09/survey-admin/users"
	"github.com/rs/zerolog/log"
)

const defaultPageLimit = 50

func pageParams(r *http.Request) (offset, limit int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	return offset, limit
}

func parseOptionalRole(role *string) (*users.Role, error) {
	if role == nil {
		return nil, nil
	}
	parsed, err := users.ParseRole(*role)
	if err != nil {
		return nil, err
	}
	return utils.Ptr(parsed), nil
}

func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pageParams(r)
		list, err := s.users.List(r.Context(), offset, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type createUserRequest struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Role     *string `json:"role"`
}

func (s *Server) AdminUserCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		role, err := parseOptionalRole(req.Role)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		nu := users.NewUser{Email: req.Email, Name: req.Name, Password: req.Password, Role: utils.Value(role)}

		user, err := s.users.Create(r.Context(), nu)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		actor, _ := IdentityFromContext(r.Context())
		log.Info().Str("actor", actor.SubjectID).Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user created")
		writeJSON(w, http.StatusCreated, userResponse{User: user})
	}
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// AdminUserUpdateHandler changes name, role or password. A changed role
// applies to the user's next login; their current session keeps its role.
func (s *Server) AdminUserUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		role, err := parseOptionalRole(req.Role)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		user, err := s.users.Update(r.Context(), r.PathValue("id"), users.UserUpdate{Name: req.Name, Role: role, Password: req.Password})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{User: user})
	}
}

func (s *Server) AdminUserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := IdentityFromContext(r.Context())
		target := r.PathValue("id")

		if err := s.users.Delete(r.Context(), actor.SubjectID, target); err != nil {
			if apperrors.Is(err, apperrors.ErrSelfDeletion) {
				log.Warn().Str("actor", actor.SubjectID).Msg("blocked self deletion")
			}
			writeServiceError(w, r, err)
			return
		}
		if err := s.keys.DeleteUser(r.Context(), target); err != nil {
			log.Warn().Err(err).Str("user_id", target).Msg("failed to delete stored keys")
		}
		s.formsCache.Delete(target)

		log.Info().Str("actor", actor.SubjectID).Str("user_id", target).Msg("user deleted")
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}
