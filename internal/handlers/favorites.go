package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/middleware"
	"github.com/mapbrew/brewfinder/internal/models"
	"github.com/mapbrew/brewfinder/internal/services"
)

type FavoritesHandler struct {
	favorites *services.FavoritesSlotManager
}

func NewFavoritesHandler(favorites *services.FavoritesSlotManager) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

func SetupFavoriteRoutes(router fiber.Router, favorites *services.FavoritesSlotManager) {
	h := NewFavoritesHandler(favorites)

	router.Get("/", h.List)
	router.Post("/", h.Add)
	router.Delete("/:placeID", h.Remove)
	router.Get("/removed", h.RecentlyRemoved)
}

type FavoritesResponse struct {
	Items    []models.PlaceRecord `json:"items"`
	Used     int                  `json:"used"`
	MaxSlots int                  `json:"max_slots"`
}

// List godoc
// @Summary List favorites for the caller
// @Tags favorites
// @Produce json
// @Success 200 {object} FavoritesResponse
// @Router /favorites [get]
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	items := h.favorites.List(identity)
	used, max := h.favorites.Slots(identity)

	return c.JSON(FavoritesResponse{Items: items, Used: used, MaxSlots: max})
}

// Add godoc
// @Summary Favorite a place
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body models.PlaceRecord true "Place snapshot"
// @Success 201 {object} FavoritesResponse
// @Failure 409 {object} ErrorResponse
// @Router /favorites [post]
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	var record models.PlaceRecord
	if err := c.BodyParser(&record); err != nil || record.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid place record"})
	}

	if err := h.favorites.Add(identity, record); err != nil {
		return serviceError(c, err)
	}

	used, max := h.favorites.Slots(identity)
	return c.Status(fiber.StatusCreated).JSON(FavoritesResponse{
		Items:    h.favorites.List(identity),
		Used:     used,
		MaxSlots: max,
	})
}

// Remove godoc
// @Summary Unfavorite a place
// @Tags favorites
// @Produce json
// @Param placeID path string true "Place ID"
// @Success 200 {object} FavoritesResponse
// @Router /favorites/{placeID} [delete]
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	placeID := c.Params("placeID")
	if placeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "place ID required"})
	}

	h.favorites.Remove(identity, placeID)

	used, max := h.favorites.Slots(identity)
	return c.JSON(FavoritesResponse{
		Items:    h.favorites.List(identity),
		Used:     used,
		MaxSlots: max,
	})
}

// RecentlyRemoved godoc
// @Summary List recently unfavorited places still inside the retention window
// @Tags favorites
// @Produce json
// @Success 200 {object} map[string][]models.PlaceRecord
// @Router /favorites/removed [get]
func (h *FavoritesHandler) RecentlyRemoved(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	return c.JSON(fiber.Map{
		"items": h.favorites.RecentlyRemoved(identity),
	})
}
