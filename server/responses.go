package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

const (
	msgInternal            = "internal server error"
	msgTooManyRequests     = "too many requests"
	msgUnauthenticated     = "authentication required"
	msgForbidden           = "access denied"
	msgNotFound            = "not found"
	msgInvalidBody         = "invalid request body"
	msgInvalidCredentials  = "invalid email or password"
	msgInvalidRefreshToken = "invalid refresh token"
	msgAlreadyExists       = "user already exists"
	msgUserNotFound        = "user not found"
)

// Envelope wraps every successful response.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope wraps every failed response.
type ErrorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Status: status, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorEnvelope{Status: status, Message: message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, errors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, errors.ErrInvalidRefreshToken):
		writeError(w, http.StatusUnauthorized, msgInvalidRefreshToken)
	case errors.Is(err, errors.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, msgUnauthenticated)
	case errors.Is(err, errors.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, errors.ErrAlreadyExists):
		writeError(w, http.StatusConflict, msgAlreadyExists)
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrPrincipalNotFound):
		writeError(w, http.StatusNotFound, msgUserNotFound)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// validationMessage drops the taxonomy suffix so clients see only the field message.
func validationMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+errors.ErrInvalidRequest.Error())
}

// decodeJSON reads a bounded JSON body into v. An empty body is accepted
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && err == io.EOF {
			return nil
		}
		return errors.Wrapf(errors.ErrInvalidRequest, "%s", msgInvalidBody)
	}
	return nil
}
