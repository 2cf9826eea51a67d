package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/nestboard/backend/internal/models"
	"github.com/nestboard/backend/pkg/apperr"
)

// httpError translates a service error into the echo error envelope using
// the apperr code for the status. Translation happens here and nowhere else.
func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(apperr.ToHTTPStatus(apperr.CodeOf(err)), err.Error())
}

// currentUserID extracts the authenticated user's ID set by the JWT
// middleware. Returns 0 when the request somehow reached a protected
// handler without claims.
func currentUserID(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}
