// Package middleware holds the Echo middleware shared by all routes:
// bearer-token authentication, role guards, request logging and the
// response cache for public listings.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/metrics"
	"github.com/iliyamo/internship-portal/internal/model"
	"github.com/iliyamo/internship-portal/internal/utils"
)

// principalKey is the echo.Context key of the authenticated principal.
const principalKey = "middleware.principal"

// PrincipalLoader resolves the user a token was issued to.
type PrincipalLoader interface {
	GetByID(ctx context.Context, id uint64) (*model.Principal, error)
}

// Authenticate returns a middleware that runs on every request.  A valid
// bearer access token of an existing, active user attaches that user's
// principal to the request.  In every other case the request continues
// anonymously; route guards decide whether that is acceptable.
func Authenticate(verifier utils.Verifier, users PrincipalLoader, rec metrics.Recorder, logger *slog.Logger) echo.MiddlewareFunc {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}
			ctx := c.Request().Context()

			claims, err := verifier.Verify(ctx, raw)
			switch {
			case errors.Is(err, model.ErrTokenExpired):
				rec.RecordTokenVerify(metrics.ResultExpired)
				return next(c)
			case err != nil:
				rec.RecordTokenVerify(metrics.ResultInvalid)
				if !errors.Is(err, model.ErrTokenInvalid) {
					logger.WarnContext(ctx, "token verification failed", "err", err)
				}
				return next(c)
			case claims.Type != utils.TokenAccess:
				rec.RecordTokenVerify(metrics.ResultInvalid)
				return next(c)
			}
			rec.RecordTokenVerify(metrics.ResultValid)

			p, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					logger.ErrorContext(ctx, "load principal", "user_id", claims.UserID, "err", err)
				}
				return next(c)
			}
			if !p.IsActive {
				return next(c)
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal of the request, or nil.
func PrincipalFrom(c echo.Context) *model.Principal {
	p, _ := c.Get(principalKey).(*model.Principal)
	return p
}

// WithPrincipal attaches p to c.  Tests use it to skip token handling.
func WithPrincipal(c echo.Context, p *model.Principal) {
	c.Set(principalKey, p)
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}
