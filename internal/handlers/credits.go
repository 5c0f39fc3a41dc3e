package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/middleware"
	"github.com/mapbrew/brewfinder/internal/services"
)

type CreditsHandler struct {
	ledger  *services.CreditLedger
	rewards *services.RewardService
}

func NewCreditsHandler(ledger *services.CreditLedger, rewards *services.RewardService) *CreditsHandler {
	return &CreditsHandler{ledger: ledger, rewards: rewards}
}

func SetupCreditRoutes(router fiber.Router, ledger *services.CreditLedger, rewards *services.RewardService) {
	h := NewCreditsHandler(ledger, rewards)

	router.Get("/", h.Balance)
	router.Post("/reward", h.RewardCredits)
	router.Post("/slots/reward", h.RewardSlots)
}

type BalanceResponse struct {
	Identity string `json:"identity"`
	Balance  int64  `json:"balance"`
}

type RewardRequest struct {
	Amount int64  `json:"amount"`
	Source string `json:"source"`
}

// Balance godoc
// @Summary Get the caller's credit balance
// @Tags credits
// @Produce json
// @Success 200 {object} BalanceResponse
// @Router /credits [get]
func (h *CreditsHandler) Balance(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	balance, err := h.ledger.Balance(identity)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(BalanceResponse{Identity: identity.String(), Balance: balance})
}

// RewardCredits godoc
// @Summary Apply a credit grant from a completed reward or purchase
// @Tags credits
// @Accept json
// @Produce json
// @Param request body RewardRequest true "Grant"
// @Success 200 {object} BalanceResponse
// @Router /credits/reward [post]
func (h *CreditsHandler) RewardCredits(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	var req RewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	balance, err := h.rewards.OnCreditsGranted(identity, req.Amount, rewardSource(req.Source))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(BalanceResponse{Identity: identity.String(), Balance: balance})
}

// RewardSlots godoc
// @Summary Apply a favorite-slot grant from a completed reward or purchase
// @Tags credits
// @Accept json
// @Produce json
// @Param request body RewardRequest true "Grant"
// @Success 200 {object} map[string]int
// @Router /credits/slots/reward [post]
func (h *CreditsHandler) RewardSlots(c *fiber.Ctx) error {
	identity, err := middleware.ResolveIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "X-Device-ID header or bearer token required"})
	}

	var req RewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	maxSlots, err := h.rewards.OnSlotsGranted(identity, int(req.Amount), rewardSource(req.Source))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"max_slots": maxSlots})
}

func rewardSource(s string) services.RewardSource {
	if s == string(services.SourcePurchase) {
		return services.SourcePurchase
	}
	return services.SourceRewardedAd
}
