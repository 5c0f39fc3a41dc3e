package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/services"
)

type AppConfigHandler struct {
	service *services.AppConfigService
}

func NewAppConfigHandler(service *services.AppConfigService) *AppConfigHandler {
	return &AppConfigHandler{service: service}
}

func SetupAppConfigRoutes(router fiber.Router, service *services.AppConfigService) {
	h := NewAppConfigHandler(service)

	router.Get("/ads", h.GetAdConfigs)
	router.Get("/version-check", h.CheckVersion)
}

// GetAdConfigs godoc
// @Summary Get rewarded-ad configuration for a platform
// @Tags app-config
// @Produce json
// @Param platform query string false "ios or android"
// @Success 200 {object} map[string]interface{}
// @Router /app-config/ads [get]
func (h *AppConfigHandler) GetAdConfigs(c *fiber.Ctx) error {
	configs, err := h.service.GetAdConfigs(c.Query("platform"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{"items": configs})
}

// CheckVersion godoc
// @Summary Check the client version against update requirements
// @Tags app-config
// @Produce json
// @Param platform query string true "ios or android"
// @Param version query string true "Current app version"
// @Success 200 {object} services.VersionCheckResponse
// @Router /app-config/version-check [get]
func (h *AppConfigHandler) CheckVersion(c *fiber.Ctx) error {
	platform := c.Query("platform")
	version := c.Query("version")
	if platform == "" || version == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "platform and version are required"})
	}

	resp, err := h.service.CheckVersion(platform, version)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(resp)
}
