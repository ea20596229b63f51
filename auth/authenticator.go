package auth

import (
	"net/http"
	"strings"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/redsource/redsource-server/token"
	"github.com/redsource/redsource-server/users"
)

const bearerPrefix = "Bearer "

// Outcome classifies one authentication pass.
type Outcome int

const (
	OutcomeBypassed          Outcome = iota // Path or method is exempt
	OutcomeNoCredential                     // No bearer header
	OutcomeInvalidCredential                // Header present but token or principal rejected
	OutcomeAuthenticated                    // Principal resolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBypassed:
		return "bypassed"
	case OutcomeNoCredential:
		return "no_credential"
	case OutcomeInvalidCredential:
		return "invalid_credential"
	case OutcomeAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Result is the outcome of Authenticate. Err holds the reason a credential
// was rejected; it is informational and never surfaced to the client.
type Result struct {
	Outcome   Outcome
	Principal *users.User
	Claims    *token.Claims
	Err       error
}

// DefaultBypassPaths are the paths, and the subtrees below them, that never
// carry credentials.
var DefaultBypassPaths = []string{
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/refresh-token",
	"/swagger-ui",
	"/v3/api-docs",
	"/error",
	"/healthz",
	"/metrics",
}

// Authenticator resolves the principal of a request from its bearer access
// token. It never fails the request itself; authorization is decided later.
type Authenticator struct {
	codec  *token.Codec
	users  users.UserRepo
	bypass []string
}

type AuthenticatorOption func(*Authenticator)

// WithBypassPaths replaces DefaultBypassPaths.
func WithBypassPaths(prefixes ...string) AuthenticatorOption {
	return func(a *Authenticator) {
		a.bypass = prefixes
	}
}

func NewAuthenticator(codec *token.Codec, userRepo users.UserRepo, options ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		codec:  codec,
		users:  userRepo,
		bypass: DefaultBypassPaths,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Authenticate runs one pass over r. A principal already present on the
// request context is returned unchanged.
func (a *Authenticator) Authenticate(r *http.Request) Result {
	if principal, ok := PrincipalFromContext(r.Context()); ok {
		return Result{Outcome: OutcomeAuthenticated, Principal: principal}
	}
	if a.IsBypassed(r) {
		return Result{Outcome: OutcomeBypassed}
	}

	raw, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return Result{Outcome: OutcomeNoCredential}
	}

	claims, err := a.codec.Decode(raw)
	if err != nil {
		return Result{Outcome: OutcomeInvalidCredential, Err: err}
	}
	if claims.TokenType != token.TokenTypeAccess {
		return Result{Outcome: OutcomeInvalidCredential, Claims: claims,
			Err: errors.Wrapf(errors.ErrInvalidToken, "token type %q", claims.TokenType)}
	}

	principal, err := a.users.GetByEmail(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			err = errors.Wrapf(errors.ErrPrincipalNotFound, "subject %s", claims.Subject)
		}
		return Result{Outcome: OutcomeInvalidCredential, Claims: claims, Err: err}
	}
	if principal.Email != claims.Subject {
		return Result{Outcome: OutcomeInvalidCredential, Claims: claims, Err: errors.ErrPrincipalMismatch}
	}

	return Result{Outcome: OutcomeAuthenticated, Principal: principal, Claims: claims}
}

// IsBypassed reports whether r skips authentication: preflight requests and
// any path equal to a bypass prefix or below it.
func (a *Authenticator) IsBypassed(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	for _, prefix := range a.bypass {
		if underPath(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// underPath matches whole path segments, so "/metrics" does not cover "/metricsfoo".
func underPath(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// BearerToken extracts the token from an Authorization header value. The
// scheme must be exactly "Bearer " and the token non-empty.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	return raw, raw != ""
}
