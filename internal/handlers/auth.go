package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/config"
	"github.com/mapbrew/brewfinder/internal/middleware"
	"github.com/mapbrew/brewfinder/internal/services"
)

type AuthHandler struct {
	service *services.AuthService
	cfg     *config.Config
}

func NewAuthHandler(service *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg}
}

func SetupAuthRoutes(router fiber.Router, service *services.AuthService, cfg *config.Config) {
	h := NewAuthHandler(service, cfg)

	router.Post("/signup", h.Signup)
	router.Post("/login", h.Login)
	router.Post("/refresh", h.RefreshToken)
	router.Post("/guest", h.GuestSession)
	router.Post("/logout", middleware.AuthRequired(cfg), h.Logout)

	router.Get("/me", middleware.AuthRequired(cfg), h.GetMe)
	router.Delete("/me", middleware.AuthRequired(cfg), h.DeleteMe)
}

// Signup godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.SignupRequest true "Credentials"
// @Success 201 {object} services.UserResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "email and password are required"})
	}

	user, err := h.service.Signup(&req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary Sign in; merges the device's guest credits into the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials with device ID"
// @Success 200 {object} services.AuthResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(resp)
}

// Logout godoc
// @Summary Sign out; runs the sign-out credit merge for the device
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LogoutRequest true "Device ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var req services.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.service.Logout(userID, req.DeviceID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"status": "signed out"})
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} services.AuthResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req services.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	resp, err := h.service.RefreshToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(resp)
}

// GuestSession godoc
// @Summary Issue a guest device identity with the first-launch credits
// @Tags auth
// @Produce json
// @Success 201 {object} services.GuestSessionResponse
// @Router /auth/guest [post]
func (h *AuthHandler) GuestSession(c *fiber.Ctx) error {
	resp, err := h.service.GuestSession()
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetMe godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} services.UserResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	user, err := h.service.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "User not found"})
	}

	return c.JSON(user)
}

// DeleteMe godoc
// @Summary Deactivate the authenticated user's account
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /auth/me [delete]
func (h *AuthHandler) DeleteMe(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	if err := h.service.DeleteUser(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{"status": "account deactivated"})
}
