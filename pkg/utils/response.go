package utils

import (
	"errors"
	"net/http"

	"trip-planner/internal/models"

	"github.com/labstack/echo/v4"
)

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes a JSON error body with the given status code.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// HandleServiceError maps service-layer errors onto HTTP responses. Errors
// are matched with errors.Is so wrapped errors keep their classification.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrTimingNotConfigured):
		return RespondWithError(c, http.StatusNotFound, "Default timing profile not configured")
	case errors.Is(err, models.ErrInvalidInput):
		return RespondWithError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, models.ErrConflict):
		return RespondWithError(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, models.ErrResolutionFailed):
		return RespondWithError(c, http.StatusBadGateway, "Place resolution failed")
	case errors.Is(err, models.ErrDistanceLookupFailed):
		return RespondWithError(c, http.StatusBadGateway, "Distance lookup failed")
	case errors.Is(err, models.ErrInconsistentChain):
		return RespondWithError(c, http.StatusInternalServerError, "Itinerary data is inconsistent")
	default:
		c.Logger().Errorf("unhandled service error: %v", err)
		return RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// ExtractUserInfo reads the authenticated user's ID and email from the
// context values set by the JWT middleware. The returned error is a non-nil
// *echo.HTTPError so handlers can return it directly.
func ExtractUserInfo(c echo.Context) (userID string, email string, err error) {
	userID, _ = c.Get("userID").(string)
	email, _ = c.Get("userEmail").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication")
	}
	return userID, email, nil
}
