package itinerary

import (
	"net/http"
	"strconv"
	"time"

	"trip-planner/internal/models"
	"trip-planner/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for itineraries.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new itinerary handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func (h *Handler) CreateItinerary(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateItineraryRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	itin, err := h.svc.CreateItinerary(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, itin)
}

func (h *Handler) ListMyItineraries(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	summaries, err := h.svc.ListMyItineraries(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, summaries)
}

func (h *Handler) GetMenuDetails(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itineraryID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	menu, err := h.svc.GetMenuDetails(c.Request().Context(), userID, itineraryID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, menu)
}

func (h *Handler) GetTimeline(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itineraryID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	timeline, err := h.svc.GetTimeline(c.Request().Context(), userID, itineraryID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, timeline)
}

func (h *Handler) GetRoute(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itineraryID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	dayID := 0
	if raw := c.QueryParam("day"); raw != "" {
		dayID, err = strconv.Atoi(raw)
		if err != nil || dayID <= 0 {
			return utils.RespondWithError(c, http.StatusBadRequest, "Invalid day")
		}
	}

	route, err := h.svc.GetRoute(c.Request().Context(), userID, itineraryID, dayID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, route)
}

func (h *Handler) GetItineraryCostBreakup(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itineraryID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	breakup, err := h.svc.GetItineraryCostBreakup(c.Request().Context(), userID, itineraryID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, breakup)
}

func (h *Handler) GetDaySummary(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "dayId")
	if err != nil {
		return err
	}

	summary, err := h.svc.GetDaySummary(c.Request().Context(), userID, dayID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, summary)
}

func (h *Handler) GetDayCostBreakup(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "dayId")
	if err != nil {
		return err
	}

	breakup, err := h.svc.GetDayCostBreakup(c.Request().Context(), userID, dayID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, breakup)
}

func (h *Handler) AddItem(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "dayId")
	if err != nil {
		return err
	}

	var req models.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	item, err := h.svc.AddItem(c.Request().Context(), userID, dayID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, item)
}

func (h *Handler) ReorderItems(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "dayId")
	if err != nil {
		return err
	}

	var req models.ReorderItemsRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	summary, err := h.svc.ReorderItems(c.Request().Context(), userID, dayID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, summary)
}

func (h *Handler) UpdateItemDuration(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}

	var req models.UpdateItemDurationRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	summary, err := h.svc.UpdateItemDuration(c.Request().Context(), userID, itemID, req.StayDuration)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, summary)
}

func (h *Handler) UpdateItemCost(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}

	var req models.UpdateItemCostRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.svc.UpdateItemCost(c.Request().Context(), userID, itemID, req.Cost); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateItemDescription(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}

	var req models.UpdateItemDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.svc.UpdateItemDescription(c.Request().Context(), userID, itemID, req.Description); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}

	summary, err := h.svc.DeleteItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, summary)
}

func (h *Handler) CreateShareCode(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itineraryID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateShareCodeRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.CreateShareCode(c.Request().Context(), userID, itineraryID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, resp)
}

func (h *Handler) GetShareCode(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	itineraryID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.svc.GetShareCode(c.Request().Context(), userID, itineraryID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, resp)
}

// ResolveSharedItinerary is the unauthenticated entry point behind share
// links.
func (h *Handler) ResolveSharedItinerary(c echo.Context) error {
	code := c.Param("code")
	menu, err := h.svc.ResolveShareCode(c.Request().Context(), code)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, menu)
}

// upgrader is used to upgrade HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{}

// summaryStreamInterval is how often the day-summary stream refreshes.
const summaryStreamInterval = 5 * time.Second

// StreamDaySummary upgrades the connection to a WebSocket and pushes the
// day's summary on an interval until the client disconnects.
func (h *Handler) StreamDaySummary(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "dayId")
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()
	ticker := time.NewTicker(summaryStreamInterval)
	defer ticker.Stop()

	for {
		summary, err := h.svc.GetDaySummary(ctx, userID, dayID)
		if err != nil {
			_ = conn.WriteJSON(models.ErrorResponse{Message: "day summary unavailable"})
			return nil
		}
		if err := conn.WriteJSON(summary); err != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
