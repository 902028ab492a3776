package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: role must be non-empty
// and user_id non-zero (presence proves the middleware ran). A token minted
// without a user id is structurally valid but operationally unusable.
func ctxClaims(c echo.Context) (userID uint, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(uint)
	if userID == 0 {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return userID, role, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
