package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// identity names the caller for logs: the user id of the principal, or
// "guest" when the request is anonymous.
func identity(c echo.Context) string {
	if p := PrincipalFrom(c); p != nil {
		return strconv.FormatUint(p.ID, 10)
	}
	return "guest"
}
