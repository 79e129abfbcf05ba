package timing

import (
	"net/http"

	"trip-planner/internal/models"
	"trip-planner/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for timing profiles.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new timing handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetMyDefaults(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	profile, err := h.svc.GetDefaults(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, profile)
}

func (h *Handler) UpsertMyDefaults(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.UpsertTimingRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	profile, err := h.svc.Upsert(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, profile)
}
