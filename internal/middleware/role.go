package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-portal/internal/model"
)

// Requirement describes who may pass a guard.  Roles is an any-of set;
// empty means any authenticated user.  A non-empty UserType additionally
// restricts the guard to students or recruiters.
type Requirement struct {
	Roles    []model.Role
	UserType model.UserType
}

// Authorize checks p against req.  A nil principal is unauthenticated.
func Authorize(p *model.Principal, req Requirement) error {
	if p == nil {
		return model.ErrUnauthenticated
	}
	if len(req.Roles) > 0 {
		allowed := false
		for _, r := range req.Roles {
			if p.Roles.Has(r) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: requires role %v", model.ErrForbidden, req.Roles)
		}
	}
	if req.UserType != model.UserTypeNone && p.UserType != req.UserType {
		return fmt.Errorf("%w: requires a %s account", model.ErrForbidden, req.UserType)
	}
	return nil
}

// RequireRole enforces req on the principal attached by Authenticate.  The
// returned error is rendered by the HTTP error handler.
func RequireRole(req Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Authorize(PrincipalFrom(c), req); err != nil {
				return err
			}
			return next(c)
		}
	}
}
