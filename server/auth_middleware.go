package server

import (
	"net/http"

	"github.com/redsource/redsource-server/auth"
	"github.com/rs/zerolog"
)

// AuthenticateMiddleware runs the Request Authenticator once and attaches the
// principal to the request context. It never rejects a request: missing or
// bad credentials leave the request anonymous for the guards below it.
func (s *Server) AuthenticateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := s.authenticator.Authenticate(r)
		s.metrics.AuthOutcome(result.Outcome.String())

		switch result.Outcome {
		case auth.OutcomeInvalidCredential:
			zerolog.Ctx(r.Context()).Debug().Err(result.Err).Str("path", r.URL.Path).Msg("bearer token rejected")
		case auth.OutcomeAuthenticated:
			if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
				r = r.WithContext(auth.ContextWithPrincipal(r.Context(), result.Principal))
			}
		}
		next(w, r)
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func (s *Server) RequireAuthenticated() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
				unauthenticated(w)
				return
			}
			next(w, r)
		}
	}
}

// RequireAuthority admits principals holding at least one of authorities.
// Anonymous requests get 401, authenticated ones lacking the authority 403.
func (s *Server) RequireAuthority(authorities ...string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				unauthenticated(w)
				return
			}
			for _, a := range authorities {
				if principal.HasAuthority(a) {
					next(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, msgForbidden)
		}
	}
}

// RequireSelfOrAuthority admits the principal whose id is the {id} path
// value, or any principal holding authority.
func (s *Server) RequireSelfOrAuthority(authority string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				unauthenticated(w)
				return
			}
			if principal.ID != r.PathValue("id") && !principal.HasAuthority(authority) {
				writeError(w, http.StatusForbidden, msgForbidden)
				return
			}
			next(w, r)
		}
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="redsource"`)
	writeError(w, http.StatusUnauthorized, msgUnauthenticated)
}
