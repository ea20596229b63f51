package server

import (
	"net/http"

	"github.com/redsource/redsource-server/auth"
)

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeServiceError(w, r, err)
			return
		}

		user, err := s.auth.Register(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, "user registered successfully, please login", user)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeServiceError(w, r, err)
			return
		}

		tokens, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.metrics.TokensIssued("password")
		noStore(w)
		writeSuccess(w, http.StatusOK, "login successful", tokens)
	}
}

// RefreshTokenHandler accepts the refresh token as a bearer header or as
// {"refreshToken": "..."} in the body. Every failure is a 401.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken, err := refreshTokenFromRequest(w, r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		tokens, err := s.auth.Refresh(r.Context(), refreshToken)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.metrics.TokensIssued("refresh_token")
		noStore(w)
		writeSuccess(w, http.StatusOK, "token refreshed", tokens)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken, err := refreshTokenFromRequest(w, r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if err := s.auth.Logout(r.Context(), refreshToken); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "logged out", nil)
	}
}

// refreshTokenFromRequest prefers the JSON body over the Authorization header
// since an authenticated client may send its access token in the header.
func refreshTokenFromRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	var req auth.RefreshRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		return "", err
	}
	if req.RefreshToken != "" {
		return req.RefreshToken, nil
	}
	refreshToken, _ := auth.BearerToken(r.Header.Get("Authorization"))
	return refreshToken, nil
}

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
