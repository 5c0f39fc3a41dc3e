package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/config"
	"github.com/mapbrew/brewfinder/internal/middleware"
	"github.com/mapbrew/brewfinder/internal/models"
	"github.com/mapbrew/brewfinder/internal/services"
)

type SearchHandler struct {
	coordinator *services.FetchCoordinator
}

func NewSearchHandler(coordinator *services.FetchCoordinator) *SearchHandler {
	return &SearchHandler{coordinator: coordinator}
}

func SetupSearchRoutes(router fiber.Router, coordinator *services.FetchCoordinator, cfg *config.Config) {
	h := NewSearchHandler(coordinator)

	router.Get("/search", middleware.OptionalAuth(cfg), h.Search)
}

type SearchResponse struct {
	Items     []models.PlaceRecord `json:"items"`
	Total     int                  `json:"total"`
	FromCache bool                 `json:"from_cache"`
}

// Search godoc
// @Summary Search places around a coordinate
// @Tags places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query int false "Search radius in meters"
// @Param intent query string false "Search intent: cafe or brewery"
// @Success 200 {object} SearchResponse
// @Failure 402 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /places/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "lat and lng are required"})
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "coordinate out of range"})
	}

	radius, _ := strconv.Atoi(c.Query("radius", "1500"))
	if radius <= 0 || radius > 50000 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid radius"})
	}

	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	result, err := h.coordinator.Fetch(c.UserContext(), services.FetchRequest{
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: radius,
		Intent:       services.ParseIntent(c.Query("intent")),
		Identity:     identity,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(SearchResponse{
		Items:     result.Records,
		Total:     len(result.Records),
		FromCache: result.FromCache,
	})
}
