package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
)

// getUserIDFromContext extracts the authenticated user ID from the JWT
// claims stored by the auth middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// domainError maps a repository/engine error to an echo HTTPError using the
// shared taxonomy
func domainError(err error) *echo.HTTPError {
	return echo.NewHTTPError(apperrors.HTTPStatus(err), err.Error())
}
