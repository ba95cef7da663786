// Package handler binds the HTTP API to the services.  Handlers decode and
// validate requests, pass the authenticated principal explicitly, and
// return errors; the error handler turns them into responses.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/model"
)

// ErrorKind is one entry of the error taxonomy as it appears on the wire.
type ErrorKind struct {
	Code   string
	Status int
}

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{model.ErrValidation, ErrorKind{"validation", http.StatusBadRequest}},
	{model.ErrDuplicateEmail, ErrorKind{"duplicate_email", http.StatusConflict}},
	{model.ErrConflict, ErrorKind{"conflict", http.StatusConflict}},
	{model.ErrProfileMissing, ErrorKind{"profile_missing", http.StatusConflict}},
	{model.ErrInvalidCredentials, ErrorKind{"invalid_credentials", http.StatusUnauthorized}},
	{model.ErrInvalidUser, ErrorKind{"invalid_user", http.StatusUnauthorized}},
	{model.ErrTokenExpired, ErrorKind{"token_expired", http.StatusUnauthorized}},
	{model.ErrTokenInvalid, ErrorKind{"token_invalid", http.StatusUnauthorized}},
	{model.ErrUnauthenticated, ErrorKind{"unauthenticated", http.StatusUnauthorized}},
	{model.ErrInactiveAccount, ErrorKind{"inactive_account", http.StatusForbidden}},
	{model.ErrForbidden, ErrorKind{"forbidden", http.StatusForbidden}},
	{model.ErrNotFound, ErrorKind{"not_found", http.StatusNotFound}},
}

// Classify finds the domain kind of err.  Errors outside the taxonomy,
// including hashing failures, report false.
func Classify(err error) (ErrorKind, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind, true
		}
	}
	return ErrorKind{}, false
}

// StatusPolicy picks the HTTP status of a classified domain error.
type StatusPolicy func(ErrorKind) int

// TaxonomyPolicy keeps the status that belongs to each kind.
func TaxonomyPolicy(k ErrorKind) int { return k.Status }

// BadRequestPolicy answers every domain error with 400, as older clients
// of this API expect.
func BadRequestPolicy(ErrorKind) int { return http.StatusBadRequest }

// PolicyByName resolves the HTTP_ERROR_POLICY setting.
func PolicyByName(name string) (StatusPolicy, error) {
	switch strings.ToLower(name) {
	case "", "taxonomy":
		return TaxonomyPolicy, nil
	case "bad_request":
		return BadRequestPolicy, nil
	}
	return nil, fmt.Errorf("unknown error policy %q", name)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ErrorHandler renders errors returned by handlers and middleware.  Domain
// errors go through policy; echo's own errors keep their status; anything
// else is logged and hidden behind a 500.
func ErrorHandler(policy StatusPolicy, logger *slog.Logger) echo.HTTPErrorHandler {
	if policy == nil {
		policy = TaxonomyPolicy
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"}

		var he *echo.HTTPError
		if k, ok := Classify(err); ok {
			status, body = policy(k), ErrorResponse{Error: err.Error(), Code: k.Code}
		} else if errors.As(err, &he) {
			status = he.Code
			body = ErrorResponse{Error: fmt.Sprint(he.Message), Code: statusCode(he.Code)}
		} else {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "err", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.WarnContext(c.Request().Context(), "write error response", "err", werr)
		}
	}
}

// statusCode turns an HTTP status into a snake_case code, e.g. "not_found".
func statusCode(status int) string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}
