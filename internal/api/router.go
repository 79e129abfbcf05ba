package api

import (
	"net/http"

	"trip-planner/internal/api/middleware"
	"trip-planner/internal/modules/itinerary"
	"trip-planner/internal/modules/timing"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	itineraryHandler *itinerary.Handler,
	timingHandler *timing.Handler,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to Trip Planner!"})
	})
	e.GET("/api/shared/:code", itineraryHandler.ResolveSharedItinerary)

	// --- Itinerary Routes ---
	itineraryGroup := e.Group("/api/itineraries", authMiddleware)
	{
		itineraryGroup.POST("", itineraryHandler.CreateItinerary)
		itineraryGroup.GET("", itineraryHandler.ListMyItineraries)
		itineraryGroup.GET("/:id/menu", itineraryHandler.GetMenuDetails)
		itineraryGroup.GET("/:id/timeline", itineraryHandler.GetTimeline)
		itineraryGroup.GET("/:id/route", itineraryHandler.GetRoute) // ?day=<dayId> narrows to one day
		itineraryGroup.GET("/:id/cost-breakup", itineraryHandler.GetItineraryCostBreakup)
		itineraryGroup.POST("/:id/share", itineraryHandler.CreateShareCode)
		itineraryGroup.GET("/:id/share", itineraryHandler.GetShareCode)
	}

	// --- Day Routes ---
	dayGroup := e.Group("/api/days", authMiddleware)
	{
		dayGroup.GET("/:dayId/summary", itineraryHandler.GetDaySummary)
		dayGroup.GET("/:dayId/cost-breakup", itineraryHandler.GetDayCostBreakup)
		dayGroup.POST("/:dayId/items", itineraryHandler.AddItem)
		dayGroup.PUT("/:dayId/items/order", itineraryHandler.ReorderItems)
	}

	// --- Item Routes ---
	itemGroup := e.Group("/api/items", authMiddleware)
	{
		itemGroup.PUT("/:itemId/duration", itineraryHandler.UpdateItemDuration)
		itemGroup.PUT("/:itemId/cost", itineraryHandler.UpdateItemCost)
		itemGroup.PUT("/:itemId/description", itineraryHandler.UpdateItemDescription)
		itemGroup.DELETE("/:itemId", itineraryHandler.DeleteItem)
	}

	// --- Timing Profile Routes ---
	profileGroup := e.Group("/api/profile", authMiddleware)
	{
		profileGroup.GET("/timing", timingHandler.GetMyDefaults)
		profileGroup.PUT("/timing", timingHandler.UpsertMyDefaults)
	}

	// --- Live Day Summary (WebSocket) ---
	e.GET("/ws/days/:dayId/summary", itineraryHandler.StreamDaySummary, authMiddleware)
}
