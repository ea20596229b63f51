package server

import (
	"net/http"
	"strconv"

	"github.com/redsource/redsource-server/auth"
	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/users"
)

const defaultPageSize = 50

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			unauthenticated(w)
			return
		}
		writeSuccess(w, http.StatusOK, "current user", principal)
	}
}

// DonorProfile is the donor-facing view of an account.
type DonorProfile struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	BloodTypeID        *int   `json:"bloodTypeId,omitempty"`
	DateOfBirth        string `json:"dateOfBirth"`
	ContactInformation string `json:"contactInformation"`
	ProfilePicture     string `json:"profilePicture,omitempty"`
}

func (s *Server) DonorMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			unauthenticated(w)
			return
		}
		writeSuccess(w, http.StatusOK, "donor profile", DonorProfile{
			ID:                 principal.ID,
			Name:               principal.Name,
			Email:              principal.Email,
			BloodTypeID:        principal.BloodTypeID,
			DateOfBirth:        principal.DateOfBirth.Format(auth.DateLayout),
			ContactInformation: principal.ContactInformation,
			ProfilePicture:     principal.ProfilePicture,
		})
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit", defaultPageSize)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		list, err := s.accounts.List(r.Context(), offset, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "users", list)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.accounts.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "user", user)
	}
}

// UpdateUserHandler lets admins edit any account and users edit their own.
// Only admins may change a role.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.UpdateUserRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeServiceError(w, r, err)
			return
		}

		principal, _ := auth.PrincipalFromContext(r.Context())
		if req.Role != nil && (principal == nil || !principal.HasAuthority(users.PermAdminUpdate)) {
			writeServiceError(w, r, errors.Wrapf(errors.ErrForbidden, "role change"))
			return
		}

		user, err := s.accounts.Update(r.Context(), r.PathValue("id"), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "user updated", user)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "user deleted", nil)
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.Wrapf(errors.ErrInvalidRequest, "%s must be a non-negative integer", key)
	}
	return v, nil
}
